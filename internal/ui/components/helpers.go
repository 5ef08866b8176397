// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import "strconv"

// =============================================================================
// SHARED HELPER FUNCTIONS
// =============================================================================

func toStr(n int) string {
	return strconv.Itoa(n)
}
