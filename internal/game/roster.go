package game

// Roster is the character registry. Insertion order is preserved and
// entries are never removed; reconnection rebinds an existing entry.
type Roster struct {
	list   []*Character
	byName map[string]*Character
}

func NewRoster() *Roster {
	return &Roster{byName: make(map[string]*Character)}
}

// Add registers a character. The name must not be present yet.
func (r *Roster) Add(c *Character) {
	r.list = append(r.list, c)
	r.byName[c.Name] = c
}

// ByName returns the character with the given name.
func (r *Roster) ByName(name string) (*Character, bool) {
	c, ok := r.byName[name]
	return c, ok
}

// ByConn returns the first character, in insertion order, bound to the
// given connection id. A connection that created two characters resolves
// to the earlier one.
func (r *Roster) ByConn(id uint64) (*Character, bool) {
	for _, c := range r.list {
		if c.Conn != nil && c.Conn.ID() == id {
			return c, true
		}
	}
	return nil, false
}

// All returns every character in insertion order.
func (r *Roster) All() []*Character {
	return r.list
}

func (r *Roster) Len() int {
	return len(r.list)
}
