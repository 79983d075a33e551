// Package drag computes insertion points and tracks drag gestures between board columns.
package drag

import (
	"math"

	"github.com/hylla/tavla/internal/domain"
)

// Box is the vertical extent of one rendered task in a column.
type Box struct {
	ID     string
	Top    float64
	Height float64
}

// InsertBefore returns the ID of the box the dragged task should be placed before.
// It picks the box whose midpoint is nearest below pointerY; ties go to the earliest
// box in order. ok is false when the task belongs at the end of the column.
func InsertBefore(boxes []Box, draggedID string, pointerY float64) (string, bool) {
	best := math.Inf(-1)
	beforeID := ""
	for _, box := range boxes {
		if box.ID == draggedID {
			continue
		}
		offset := pointerY - box.Top - box.Height/2
		if offset < 0 && offset > best {
			best = offset
			beforeID = box.ID
		}
	}
	return beforeID, beforeID != ""
}

// Drop is the committed result of a drag gesture.
type Drop struct {
	TaskID   string
	From     domain.Status
	Status   domain.Status
	BeforeID string
}

// StatusChanged reports whether the drop moves the task to another column.
func (d Drop) StatusChanged() bool {
	return d.From != d.Status
}

// Coordinator tracks a single in-flight drag gesture.
type Coordinator struct {
	active   bool
	taskID   string
	from     domain.Status
	target   domain.Status
	beforeID string
}

// Begin starts dragging taskID out of the from column.
func (c *Coordinator) Begin(taskID string, from domain.Status) {
	c.active = taskID != ""
	c.taskID = taskID
	c.from = from
	c.target = from
	c.beforeID = ""
}

// Over records the pointer hovering over a column with the given layout.
func (c *Coordinator) Over(status domain.Status, boxes []Box, pointerY float64) {
	if !c.active || !status.Valid() {
		return
	}
	c.target = status
	c.beforeID, _ = InsertBefore(boxes, c.taskID, pointerY)
}

// Active reports whether a gesture is in progress.
func (c *Coordinator) Active() bool {
	return c.active
}

// TaskID returns the dragged task, or "" when idle.
func (c *Coordinator) TaskID() string {
	if !c.active {
		return ""
	}
	return c.taskID
}

// Target returns the column and insertion point currently under the pointer.
func (c *Coordinator) Target() (domain.Status, string) {
	return c.target, c.beforeID
}

// Drop ends the gesture and returns the placement to commit.
func (c *Coordinator) Drop() (Drop, bool) {
	if !c.active {
		return Drop{}, false
	}
	out := Drop{
		TaskID:   c.taskID,
		From:     c.from,
		Status:   c.target,
		BeforeID: c.beforeID,
	}
	c.Cancel()
	return out, true
}

// Cancel abandons the gesture without a placement.
func (c *Coordinator) Cancel() {
	*c = Coordinator{}
}
