// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands assembles the nxfs command tree: mount, the
// inspection commands (ls, stat, cat) that answer the same queries the
// mounted filesystem does, extract and verify, and version.
package commands
