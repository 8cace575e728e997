package domain

import "sort"

// Dataset maps each exam type to its ordered exercise collection.
type Dataset map[ExamType][]Exercise

// Filter returns the exercises of one exam type whose effective skill matches.
func (d Dataset) Filter(examType ExamType, skill Skill) []Exercise {
	var out []Exercise
	for _, ex := range d[examType] {
		if ex.EffectiveSkill() == skill {
			out = append(out, ex)
		}
	}
	return out
}

// Find looks up an exercise by id within one exam type.
func (d Dataset) Find(examType ExamType, id string) (Exercise, bool) {
	for _, ex := range d[examType] {
		if ex.ID == id {
			return ex, true
		}
	}
	return Exercise{}, false
}

// Count returns the number of exercises across all exam types.
func (d Dataset) Count() int {
	n := 0
	for _, list := range d {
		n += len(list)
	}
	return n
}

// Clone deep-copies the dataset.
func (d Dataset) Clone() Dataset {
	out := make(Dataset, len(d))
	for t, list := range d {
		cp := make([]Exercise, len(list))
		for i, ex := range list {
			cp[i] = ex.Clone()
		}
		out[t] = cp
	}
	return out
}

// TaskGroup is a run of exercises sharing a task label.
type TaskGroup struct {
	Task      int
	Exercises []Exercise
}

// GroupByTask groups exercises by task in ascending task order. Within a
// group, the input order is kept.
func GroupByTask(items []Exercise) []TaskGroup {
	index := make(map[int]int)
	var groups []TaskGroup
	for _, ex := range items {
		task := ex.GroupTask()
		i, ok := index[task]
		if !ok {
			i = len(groups)
			index[task] = i
			groups = append(groups, TaskGroup{Task: task})
		}
		groups[i].Exercises = append(groups[i].Exercises, ex)
	}
	sort.SliceStable(groups, func(a, b int) bool { return groups[a].Task < groups[b].Task })
	return groups
}
