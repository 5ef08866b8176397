// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small file and text helpers shared by bradai
// packages.
//
// # Key Functions
//
//   - AtomicWriteFile: temp file + fsync + rename write
//   - TruncateWidth: cut a string to a terminal display width
//   - PadRight: pad a string to a terminal display width
package util
