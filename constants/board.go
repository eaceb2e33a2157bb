package constants

// Task list type tags.
const (
	ListTypeTodo       = "todo"
	ListTypeInProgress = "in_progress"
	ListTypeReview     = "review"
	ListTypeDone       = "done"
	ListTypeBacklog    = "backlog"
)

// Task statuses. Independent of list membership: moving a task into the
// "Done" list does not flip its status.
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusReview     = "review"
	TaskStatusDone       = "done"
)

// Task priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// DefaultList describes one of the lists bootstrapped on first board load.
type DefaultList struct {
	Name string
	Type string
}

// DefaultLists are created, positioned 0..3, the first time a project's
// board is opened with no lists.
var DefaultLists = []DefaultList{
	{Name: "To Do", Type: ListTypeTodo},
	{Name: "In Progress", Type: ListTypeInProgress},
	{Name: "Review", Type: ListTypeReview},
	{Name: "Done", Type: ListTypeDone},
}

func IsListType(t string) bool {
	switch t {
	case ListTypeTodo, ListTypeInProgress, ListTypeReview, ListTypeDone, ListTypeBacklog:
		return true
	}
	return false
}

func IsTaskStatus(s string) bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusReview, TaskStatusDone:
		return true
	}
	return false
}

func IsPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}
