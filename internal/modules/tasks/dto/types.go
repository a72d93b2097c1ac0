package dto

type AddTaskInput struct {
	Text  string
	Value int
}

// EditTaskInput changes only the fields that are set.
type EditTaskInput struct {
	ID    string
	Text  *string
	Value *int
}

type TaskOutput struct {
	ID    string
	Text  string
	Value int
}

type MutationOutput struct {
	Task    TaskOutput
	Warning string
}

type CompleteOutput struct {
	Task    TaskOutput
	Balance int
	Warning string
}
