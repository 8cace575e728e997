package cli

import (
	"testing"

	"github.com/alexanderramin/speaktrainer/internal/domain"
	"github.com/alexanderramin/speaktrainer/internal/teatest"
)

// TestDriver wraps teatest.Driver with trainer-specific inspection methods.
// It provides access to appModel internals (view stack, shared state,
// transient output) that the generic driver can't see.
type TestDriver struct {
	*teatest.Driver
}

// NewTestDriver creates a TestDriver from a test App.
// It constructs the appModel, sets terminal size, and drains Init()
// (which loads the menu counts synchronously from the in-memory store).
func NewTestDriver(t *testing.T, app *App) *TestDriver {
	t.Helper()

	m := newAppModel(app)
	d := teatest.New(t, m, teatest.WithSize(120, 40))
	d.DrainInit()

	return &TestDriver{Driver: d}
}

// ── High-level helpers ───────────────────────────────────────────────────────

// OpenList selects an exam type and skill and pushes their exercise list,
// the same way choosing them in the menu does.
func (d *TestDriver) OpenList(examType domain.ExamType, skill domain.Skill) {
	d.T.Helper()
	d.State().Select(examType, skill)
	d.Send(pushViewMsg{view: newExerciseListView(d.State())})
}

// OpenExercise opens the list for the exercise's selection and moves the
// cursor onto it before pressing Enter.
func (d *TestDriver) OpenExercise(examType domain.ExamType, skill domain.Skill, id string) {
	d.T.Helper()
	d.OpenList(examType, skill)
	m := d.appModel()
	list, ok := m.activeView().(*exerciseListView)
	if !ok {
		d.T.Fatalf("expected exercise list, got %T", m.activeView())
	}
	for i, ex := range list.visibleItems() {
		if ex.ID == id {
			for range i {
				d.PressDown()
			}
			d.PressEnter()
			return
		}
	}
	d.T.Fatalf("exercise %s not listed", id)
}

// ── Trainer-specific inspection ──────────────────────────────────────────────

func (d *TestDriver) appModel() appModel {
	return d.Model.(appModel)
}

// ActiveView returns the top view on the stack.
func (d *TestDriver) ActiveView() View {
	m := d.appModel()
	return m.activeView()
}

// ActiveViewID returns the ViewID of the top view on the stack.
func (d *TestDriver) ActiveViewID() ViewID {
	v := d.ActiveView()
	if v == nil {
		return ViewID(-1)
	}
	return v.ID()
}

// ViewStackLen returns the number of views on the stack.
func (d *TestDriver) ViewStackLen() int {
	return len(d.appModel().viewStack)
}

// ViewStackIDs returns the ViewIDs of all views on the stack, bottom to top.
func (d *TestDriver) ViewStackIDs() []ViewID {
	m := d.appModel()
	ids := make([]ViewID, len(m.viewStack))
	for i, v := range m.viewStack {
		ids[i] = v.ID()
	}
	return ids
}

// State returns the shared state for inspection.
func (d *TestDriver) State() *SharedState {
	return d.appModel().state
}

// IsQuitting returns whether the app has signaled a quit.
func (d *TestDriver) IsQuitting() bool {
	return d.appModel().quitting || d.Quitting
}

// LastOutput returns the last command output displayed in the content area.
func (d *TestDriver) LastOutput() string {
	return d.appModel().lastOutput
}
