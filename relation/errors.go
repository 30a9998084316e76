// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package relation

import "errors"

// Sentinel errors for the relation package.
var (
	// ErrDuplicateRelationship indicates the relationship id already exists.
	ErrDuplicateRelationship = errors.New("relationship id already exists")

	// ErrSelfReference indicates parent and child are the same item.
	ErrSelfReference = errors.New("relationship references itself")

	// ErrCycle indicates the edge would make the relationship graph cyclic.
	ErrCycle = errors.New("relationship would create a cycle")

	// ErrEmptyID indicates a missing relationship or item id.
	ErrEmptyID = errors.New("empty id")
)
