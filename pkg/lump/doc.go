// Package lump implements the device side of the LEGO UART Message
// Protocol (LUMP).
package lump

// LUMP is the half-duplex serial protocol spoken between a LEGO hub
// (SPIKE Prime / SPIKE Essential / EV3 / Powered-Up) and a peripheral.
// This package lets a program present itself to such a hub as a native
// sensor: it advertises the device identity and operating modes during
// the handshake, then exchanges framed sensor data and actuator
// commands with the hub indefinitely.
//
// The engine is a pair of coupled state machines driven cooperatively
// from a single non-blocking tick (Device.Run): a device-lifecycle
// machine handling host auto-detection, the mode-information broadcast,
// baud switching and heartbeat monitoring, and a frame-receiver machine
// reassembling inbound frames one byte at a time.
//
// Producer: peripheral firmware
// Consumer: LEGO hub
