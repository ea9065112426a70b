package cache

// UserTag is an interned handle for a user-assigned tag
type UserTag int

// InternUserTag returns the handle for tag, registering it on first use
func (c *Cache) InternUserTag(tag string) UserTag {
	if t, ok := c.userTagIndex[tag]; ok {
		return t
	}
	t := UserTag(len(c.userTags))
	c.userTags = append(c.userTags, tag)
	c.userTagIndex[tag] = t
	return t
}

// DerefUserTag resolves a handle back to the tag string
func (c *Cache) DerefUserTag(t UserTag) string {
	if t < 0 || int(t) >= len(c.userTags) {
		return ""
	}
	return c.userTags[t]
}

// HasUserTag checks whether the package carries the tag
func (s *State) HasUserTag(t UserTag) bool {
	for _, ut := range s.UserTags {
		if ut == t {
			return true
		}
	}
	return false
}
