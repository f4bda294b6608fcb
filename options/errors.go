package options

import "fmt"

// InvalidParallelismError is returned for a parallelism lower than one.
type InvalidParallelismError struct {
	Parallelism int
}

func (err InvalidParallelismError) Error() string {
	return fmt.Sprintf("parallelism must be at least 1, got %d", err.Parallelism)
}
