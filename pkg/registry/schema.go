// pkg/registry/schema.go
package registry

// TaskRegistry describes the worker tasks this service exposes to process
// designers: task types, schemas, retry budgets.
type TaskRegistry struct {
	Version     string `json:"version"`
	LastUpdated string `json:"lastUpdated"`
	Tasks       []Task `json:"tasks"`
}

type Task struct {
	ID           string                 `json:"id"`
	DisplayName  string                 `json:"displayName"`
	Description  string                 `json:"description"`
	Category     string                 `json:"category"`
	Version      string                 `json:"version"`
	TaskType     string                 `json:"taskType"`
	InputSchema  map[string]interface{} `json:"inputSchema"`
	OutputSchema map[string]interface{} `json:"outputSchema"`
	ErrorCodes   []string               `json:"errorCodes"`
	Timeout      string                 `json:"timeout"`
	Retries      int                    `json:"retries"`
	Workflows    []string               `json:"workflows"`
	Tags         []string               `json:"tags"`
}

// TaskByType returns the task entry for a task type, if registered.
func (r *TaskRegistry) TaskByType(taskType string) (Task, bool) {
	for _, t := range r.Tasks {
		if t.TaskType == taskType {
			return t, true
		}
	}
	return Task{}, false
}
