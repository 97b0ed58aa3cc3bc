package model

// Collection is the whole persisted state: every project in storage order.
type Collection []Project

// Clone returns a deep copy of c. A nil collection stays nil.
func (c Collection) Clone() Collection {
	if c == nil {
		return nil
	}
	out := make(Collection, len(c))
	for i, p := range c {
		out[i] = p.Clone()
	}
	return out
}

// FindProject returns the index of the project with the given ID, or -1.
func (c Collection) FindProject(id int) int {
	for i, p := range c {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// ProjectIDs returns the project IDs in storage order.
func (c Collection) ProjectIDs() []int {
	ids := make([]int, len(c))
	for i, p := range c {
		ids[i] = p.ID
	}
	return ids
}

// TodoCount returns the total number of todos in the collection.
func (c Collection) TodoCount() int {
	n := 0
	for _, p := range c {
		_, total := p.Progress()
		n += total
	}
	return n
}
