package judge

// BatchInfo describes one batch of a task.
type BatchInfo struct {
	// Value is the score of the batch when all its tests pass.
	Value int `json:"Value"`

	// Tests are the indexes of the tests of the batch.
	Tests []int `json:"Tests"`
}

// TaskInfo is the metadata of a task.
type TaskInfo struct {
	Name  string `json:"Name"`
	Title string `json:"Title"`

	// TimeLimit is in milliseconds.
	TimeLimit int `json:"TimeLimit"`

	// MemoryLimit is in kilobytes.
	MemoryLimit int `json:"MemoryLimit"`

	NTests  int         `json:"NTests"`
	Batches []BatchInfo `json:"Batches"`
}

// MaxScore returns the score of a fully correct submission. A task without
// batches is graded as one batch worth 100.
func (t *TaskInfo) MaxScore() int {
	if len(t.Batches) == 0 {
		return 100
	}
	total := 0
	for _, b := range t.Batches {
		total += b.Value
	}
	return total
}
