// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package cache provides a thread-safe LRU cache with TTL support.

It backs the recommendation result cache: ranked neighbor lists are keyed by
index version, query and result size, so publishing a new index makes every
older entry unreachable and they age out through normal LRU eviction.

# Characteristics

  - O(1) Get, Add and Remove via a hashmap plus doubly-linked list
  - Lazy TTL expiration on Get, bulk removal with CleanupExpired
  - Hit/miss counters for metrics

# Usage

	c := cache.NewLRU[[]recommend.Recommendation](10000, 10*time.Minute)
	c.Add(key, recs)
	if recs, ok := c.Get(key); ok {
	    return recs
	}
*/
package cache
