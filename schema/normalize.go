package schema

import "strings"

// NormalizeTabStatus validates and normalizes a tab status value.
func NormalizeTabStatus(value string) (TabStatus, bool) {
	switch TabStatus(strings.TrimSpace(strings.ToLower(value))) {
	case TabStatusNormal:
		return TabStatusNormal, true
	case TabStatusPinned:
		return TabStatusPinned, true
	case TabStatusSleeping:
		return TabStatusSleeping, true
	case TabStatusDiscarded:
		return TabStatusDiscarded, true
	default:
		return "", false
	}
}

// NormalizeCloseReason maps unknown or empty values to CloseReasonUser.
func NormalizeCloseReason(value string) CloseReason {
	switch CloseReason(strings.TrimSpace(strings.ToLower(value))) {
	case CloseReasonSystem:
		return CloseReasonSystem
	case CloseReasonCrash:
		return CloseReasonCrash
	default:
		return CloseReasonUser
	}
}

// NormalizePermission validates and normalizes a permission value.
// Allowed values: allow, ask, block.
func NormalizePermission(value string) (Permission, bool) {
	switch Permission(strings.TrimSpace(strings.ToLower(value))) {
	case PermissionAllow:
		return PermissionAllow, true
	case PermissionAsk:
		return PermissionAsk, true
	case PermissionBlock:
		return PermissionBlock, true
	default:
		return "", false
	}
}

// NormalizeSuggestion trims a suggestion value.
func NormalizeSuggestion(value string) string {
	return strings.TrimSpace(value)
}
