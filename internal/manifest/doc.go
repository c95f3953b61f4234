// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package manifest parses Nargo.toml package descriptors into an immutable
// Manifest record. Parsing is strict: unknown package kinds, ambiguous or
// empty dependency entries and unknown dependency keys are rejected, and the
// declared order of dependencies is preserved.
package manifest
