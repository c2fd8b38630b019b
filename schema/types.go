package schema

import "encoding/json"

// TabID identifies a tab. The empty value means "no tab" and encodes as JSON null.
type TabID string

// GroupID identifies a tab group. The empty value means "no group" and encodes as JSON null.
type GroupID string

// TabStatus describes the lifecycle state of a tab.
type TabStatus string

const (
	// TabStatusNormal is a regular tab.
	TabStatusNormal TabStatus = "normal"
	// TabStatusPinned is a pinned tab; pinned tabs precede regular tabs.
	TabStatusPinned TabStatus = "pinned"
	// TabStatusSleeping is a tab whose page is suspended but kept in memory.
	TabStatusSleeping TabStatus = "sleeping"
	// TabStatusDiscarded is a tab whose page has been unloaded.
	TabStatusDiscarded TabStatus = "discarded"
)

// CloseReason records why a tab was closed.
type CloseReason string

const (
	// CloseReasonUser is a close requested by the user.
	CloseReasonUser CloseReason = "user"
	// CloseReasonSystem is a close initiated by the application.
	CloseReasonSystem CloseReason = "system"
	// CloseReasonCrash is a close caused by a renderer crash.
	CloseReasonCrash CloseReason = "crash"
)

// Permission is a site permission policy value.
type Permission string

const (
	// PermissionAllow grants the capability without prompting.
	PermissionAllow Permission = "allow"
	// PermissionAsk prompts the user.
	PermissionAsk Permission = "ask"
	// PermissionBlock denies the capability.
	PermissionBlock Permission = "block"
)

// MarshalJSON encodes the empty id as null.
func (id TabID) MarshalJSON() ([]byte, error) {
	return marshalNullableString(string(id))
}

// UnmarshalJSON decodes null as the empty id.
func (id *TabID) UnmarshalJSON(data []byte) error {
	value, err := unmarshalNullableString(data)
	if err != nil {
		return err
	}
	*id = TabID(value)
	return nil
}

// MarshalJSON encodes the empty id as null.
func (id GroupID) MarshalJSON() ([]byte, error) {
	return marshalNullableString(string(id))
}

// UnmarshalJSON decodes null as the empty id.
func (id *GroupID) UnmarshalJSON(data []byte) error {
	value, err := unmarshalNullableString(data)
	if err != nil {
		return err
	}
	*id = GroupID(value)
	return nil
}

func marshalNullableString(value string) ([]byte, error) {
	if value == "" {
		return []byte("null"), nil
	}
	return json.Marshal(value)
}

func unmarshalNullableString(data []byte) (string, error) {
	if string(data) == "null" {
		return "", nil
	}
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return "", err
	}
	return value, nil
}
