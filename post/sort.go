package post

import "sort"

// Sort orders posts newest first. Posts without a date go last, and posts
// with equal dates keep their relative order.
func Sort(posts []Post) []Post {
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i].LastModified, posts[j].LastModified
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.After(*b)
	})
	return posts
}
