package domain

import "fmt"

// Department is a queue-serving unit whose history is analyzed.
type Department struct {
	ID      string
	Name    string
	BaseURL string
	Token   string
}

func (d Department) String() string {
	if d.Name == "" || d.Name == d.ID {
		return d.ID
	}
	return fmt.Sprintf("%s:%s", d.ID, d.Name)
}

// DepartmentHistory is a fetched dataset with its degradation state.
type DepartmentHistory struct {
	Department Department
	Dataset    Dataset
	Degraded   bool
	Err        error
}
