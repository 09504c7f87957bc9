/*
 * MinIO Cloud Storage, (C) 2020 MinIO, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package mison

import "errors"

// ErrInvalidQuery is returned by NewParser when a query path does not match
// the grammar '$' '.' segment ('.' segment)*.
var ErrInvalidQuery = errors.New("mison: invalid query path")

// ErrInvalidRecord is returned by Parse when the input is empty, or when
// extraction encounters a structural inconsistency it cannot resolve
// (fewer than two quotes where a field name is expected, a value range
// that empties during trimming, or any other bounds violation implied by
// an ill-formed record).
var ErrInvalidRecord = errors.New("mison: invalid record")