package model

// TodoItem is a single entry inside a todo list.
type TodoItem struct {
	ID        int      `json:"id"`
	Text      string   `json:"text"`
	Details   string   `json:"details,omitempty"`
	Completed bool     `json:"completed"`
	Priority  Priority `json:"priority"`
}

// Normalize fills a default priority.
func (t TodoItem) Normalize() TodoItem {
	t.Priority = t.Priority.OrDefault()
	return t
}

// TodoList is an ordered group of todos within a project.
// Todos are kept in insertion order; display order is derived.
type TodoList struct {
	ID       int        `json:"id"`
	Title    string     `json:"title"`
	Priority Priority   `json:"priority"`
	Todos    []TodoItem `json:"todos"`
}

// Clone returns a deep copy of l.
func (l TodoList) Clone() TodoList {
	out := l
	if l.Todos != nil {
		out.Todos = make([]TodoItem, len(l.Todos))
		copy(out.Todos, l.Todos)
	}
	return out
}

// Normalize fills defaults for the list and its todos.
func (l TodoList) Normalize() TodoList {
	l.Priority = l.Priority.OrDefault()
	todos := make([]TodoItem, len(l.Todos))
	for i, t := range l.Todos {
		todos[i] = t.Normalize()
	}
	l.Todos = todos
	return l
}

// FindTodo returns the index of the todo with the given ID, or -1.
func (l TodoList) FindTodo(id int) int {
	for i, t := range l.Todos {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// TodoIDs returns the IDs of l's todos in storage order.
func (l TodoList) TodoIDs() []int {
	ids := make([]int, len(l.Todos))
	for i, t := range l.Todos {
		ids[i] = t.ID
	}
	return ids
}

// Progress returns the number of completed todos and the total.
func (l TodoList) Progress() (done, total int) {
	for _, t := range l.Todos {
		if t.Completed {
			done++
		}
	}
	return done, len(l.Todos)
}
