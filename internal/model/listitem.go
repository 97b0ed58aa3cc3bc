package model

// Prioritized is implemented by every node of the project tree so that
// ordering can be applied uniformly at each level.
type Prioritized interface {
	GetID() int
	GetTitle() string
	GetPriority() Priority
}

func (p Project) GetID() int            { return p.ID }
func (p Project) GetTitle() string      { return p.Title }
func (p Project) GetPriority() Priority { return p.Priority }

func (l TodoList) GetID() int            { return l.ID }
func (l TodoList) GetTitle() string      { return l.Title }
func (l TodoList) GetPriority() Priority { return l.Priority }

func (t TodoItem) GetID() int            { return t.ID }
func (t TodoItem) GetTitle() string      { return t.Text }
func (t TodoItem) GetPriority() Priority { return t.Priority }
