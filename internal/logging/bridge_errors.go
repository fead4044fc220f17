// Copyright (c) 2025 MinimalADB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
)

// BridgeErrorType represents the category of a bridge (gRPC) failure.
type BridgeErrorType int

const (
	BridgeErrorUnknown BridgeErrorType = iota
	BridgeErrorNetwork
	BridgeErrorAuth
	BridgeErrorTimeout
	BridgeErrorUnavailable
)

// ParseBridgeError categorizes a bridge error message.
func ParseBridgeError(errMsg string) BridgeErrorType {
	lower := strings.ToLower(errMsg)

	if strings.Contains(lower, "unauthenticated") || strings.Contains(lower, "permissiondenied") || strings.Contains(lower, "bridge token") {
		return BridgeErrorAuth
	}
	if strings.Contains(lower, "rst_stream") || strings.Contains(lower, "connection reset") || strings.Contains(lower, "connection refused") {
		return BridgeErrorNetwork
	}
	if strings.Contains(lower, "deadline") || strings.Contains(lower, "timeout") {
		return BridgeErrorTimeout
	}
	if strings.Contains(lower, "unavailable") {
		return BridgeErrorUnavailable
	}
	return BridgeErrorUnknown
}

// FormatBridgeError formats a bridge error in a user-friendly way.
func FormatBridgeError(errMsg string) string {
	errType := ParseBridgeError(errMsg)

	var builder strings.Builder

	builder.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("Bridge unreachable"))
	builder.WriteString("\n\n")

	switch errType {
	case BridgeErrorNetwork:
		builder.WriteString("The minimaladb bridge refused or dropped the connection.\n")
		builder.WriteString("This usually happens when:\n")
		builder.WriteString("  • 'minimaladb serve' is not running\n")
		builder.WriteString("  • The bridge listens on a different address\n")
	case BridgeErrorAuth:
		builder.WriteString("The bridge rejected the token.\n")
		builder.WriteString("To fix this:\n")
		builder.WriteString("  • Run 'minimaladb token' on the bridge host and compare\n")
		builder.WriteString("  • Or set MINIMALADB_BRIDGE_TOKEN for this shell\n")
	case BridgeErrorTimeout:
		builder.WriteString("The bridge did not answer in time.\n")
	case BridgeErrorUnavailable:
		builder.WriteString("The bridge is currently unavailable.\n")
	default:
		builder.WriteString("The request to the bridge failed.\n")
	}

	builder.WriteString("\n")
	if errType == BridgeErrorAuth {
		builder.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint("→ Check the bridge token and try again"))
	} else {
		builder.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint("→ Start the bridge with 'minimaladb serve' or drop --remote"))
	}
	builder.WriteString("\n")

	if strings.TrimSpace(errMsg) != "" {
		builder.WriteString("\n")
		builder.WriteString(pterm.NewStyle(pterm.FgGray).Sprint("Technical details: " + Mask(errMsg)))
	}

	return builder.String()
}

// PresentBridgeError displays a formatted bridge error.
func PresentBridgeError(errMsg string) {
	fmt.Println()
	fmt.Println(FormatBridgeError(errMsg))
	fmt.Println()
}
