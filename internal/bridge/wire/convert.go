// Copyright (c) 2025 MinimalADB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package wire

import (
	"minimaladb/cli/internal/adb"
	"minimaladb/cli/internal/device"

	"google.golang.org/protobuf/types/known/structpb"
)

// Field names shared by both ends of the wire.
const (
	fieldStdout   = "stdout"
	fieldStderr   = "stderr"
	fieldType     = "type"
	fieldPercent  = "percent"
	fieldText     = "text"
	fieldCode     = "code"
	fieldSuccess  = "success"
	fieldDevices  = "devices"
	fieldID       = "id"
	fieldDeviceID = "device_id"
	fieldCommand  = "command"
)

func str(s *structpb.Struct, key string) string {
	return s.GetFields()[key].GetStringValue()
}

func num(s *structpb.Struct, key string) int {
	return int(s.GetFields()[key].GetNumberValue())
}

// FromResult encodes a command result.
func FromResult(r adb.Result) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldStdout: structpb.NewStringValue(r.Stdout),
		fieldStderr: structpb.NewStringValue(r.Stderr),
	}}
}

// ToResult decodes a command result.
func ToResult(s *structpb.Struct) adb.Result {
	return adb.Result{Stdout: str(s, fieldStdout), Stderr: str(s, fieldStderr)}
}

// FromEvent encodes a streaming event.
func FromEvent(ev adb.Event) *structpb.Struct {
	fields := map[string]*structpb.Value{
		fieldType: structpb.NewStringValue(string(ev.Type)),
	}
	switch ev.Type {
	case adb.EventProgress:
		fields[fieldPercent] = structpb.NewNumberValue(float64(ev.Percent))
	case adb.EventComplete:
		fields[fieldCode] = structpb.NewNumberValue(float64(ev.Code))
		fields[fieldSuccess] = structpb.NewBoolValue(ev.Success)
	default:
		fields[fieldText] = structpb.NewStringValue(ev.Text)
	}
	return &structpb.Struct{Fields: fields}
}

// ToEvent decodes a streaming event.
func ToEvent(s *structpb.Struct) adb.Event {
	ev := adb.Event{Type: adb.EventType(str(s, fieldType))}
	switch ev.Type {
	case adb.EventProgress:
		ev.Percent = num(s, fieldPercent)
	case adb.EventComplete:
		ev.Code = num(s, fieldCode)
		ev.Success = s.GetFields()[fieldSuccess].GetBoolValue()
	default:
		ev.Text = str(s, fieldText)
	}
	return ev
}

// FromDevices encodes a device list.
func FromDevices(devices []device.Device) *structpb.Struct {
	values := make([]*structpb.Value, 0, len(devices))
	for _, d := range devices {
		values = append(values, structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
			fieldID:   structpb.NewStringValue(d.ID),
			fieldType: structpb.NewStringValue(d.Type),
		}}))
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldDevices: structpb.NewListValue(&structpb.ListValue{Values: values}),
	}}
}

// ToDevices decodes a device list.
func ToDevices(s *structpb.Struct) []device.Device {
	list := s.GetFields()[fieldDevices].GetListValue().GetValues()
	devices := make([]device.Device, 0, len(list))
	for _, v := range list {
		d := v.GetStructValue()
		devices = append(devices, device.Device{ID: str(d, fieldID), Type: str(d, fieldType)})
	}
	return devices
}

// ShellRequest encodes a shell invocation.
func ShellRequest(deviceID, command string) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldDeviceID: structpb.NewStringValue(deviceID),
		fieldCommand:  structpb.NewStringValue(command),
	}}
}

// ParseShellRequest decodes a shell invocation.
func ParseShellRequest(s *structpb.Struct) (deviceID, command string) {
	return str(s, fieldDeviceID), str(s, fieldCommand)
}
