// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package service provides process-level scaffolding for the nxfs
// mount daemon: logger construction (console or size-rotated file)
// and the serve loop that keeps a FUSE server running until the
// process is signalled.
package service
