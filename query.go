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

import (
	"fmt"
	"regexp"
	"strings"
)

var queryPathPattern = regexp.MustCompile(`^\$\.[^.]+(\.[^.]+)*$`)

// queryNode is one node of the query trie. The root node has id == -1 and
// carries no path id of its own. childList mirrors children in a stable,
// insertion-ordered slice so speculative parsing can iterate deterministically.
type queryNode struct {
	id        int
	label     string
	pathID    int
	hasPathID bool
	children  map[string]*queryNode
	childList []*queryNode
}

func (n *queryNode) child(field string) *queryNode {
	return n.children[field]
}

func (n *queryNode) addChild(label string, id int) *queryNode {
	c := &queryNode{id: id, label: label, children: map[string]*queryNode{}}
	n.children[label] = c
	n.childList = append(n.childList, c)
	return c
}

// queryTree is the prefix trie built once from all query strings at parser
// construction time. Statistics are kept out-of-band, indexed by node id,
// so the extractor never needs to alias into the tree while recursing.
type queryTree struct {
	root     *queryNode
	numNodes int
	numPaths int
	maxDepth int
}

// newQueryTree builds a trie from path strings of the form $.seg(.seg)*.
// Each distinct path gets the next sequential path id in order of first
// occurrence; a repeated path reuses the id of its first occurrence.
func newQueryTree(paths []string) (*queryTree, error) {
	t := &queryTree{
		root: &queryNode{id: -1, children: map[string]*queryNode{}},
	}
	seen := map[string]int{}
	for _, path := range paths {
		if !queryPathPattern.MatchString(path) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidQuery, path)
		}
		pathID, ok := seen[path]
		if !ok {
			pathID = t.numPaths
			seen[path] = pathID
			t.numPaths++
		}

		segs := strings.Split(strings.TrimPrefix(path, "$."), ".")
		if len(segs) > t.maxDepth {
			t.maxDepth = len(segs)
		}

		cur := t.root
		for _, seg := range segs {
			child, ok := cur.children[seg]
			if !ok {
				child = cur.addChild(seg, t.numNodes)
				t.numNodes++
			}
			cur = child
		}
		cur.pathID = pathID
		cur.hasPathID = true
	}
	return t, nil
}