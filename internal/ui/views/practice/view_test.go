package practice

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"pmdrill/internal/modules/interview/dto"
	apperrors "pmdrill/internal/platform/errors"
)

type fakePort struct {
	answers []dto.AnswerInput
	status  dto.StatusOutput
}

func (f *fakePort) Status(context.Context) (dto.StatusOutput, error) { return f.status, nil }
func (f *fakePort) Answer(_ context.Context, in dto.AnswerInput) (dto.StatusOutput, error) {
	f.answers = append(f.answers, in)
	f.status.CurrentResponse = &dto.ResponseView{QuestionID: in.QuestionID, Content: in.Content}
	return f.status, nil
}
func (f *fakePort) Next(context.Context) (dto.StatusOutput, error) { return f.status, nil }
func (f *fakePort) Previous(context.Context) (dto.StatusOutput, error) { return f.status, nil }
func (f *fakePort) Pause(context.Context) (dto.StatusOutput, error) { return f.status, nil }
func (f *fakePort) Resume(context.Context) (dto.StatusOutput, error) { return f.status, nil }
func (f *fakePort) Complete(context.Context) (dto.StatusOutput, error) { return f.status, nil }

func statusFor(questionID, state string) dto.StatusOutput {
	return dto.StatusOutput{
		Session: dto.SessionOutput{ID: "s1", Status: state, Questions: []dto.QuestionView{{ID: "q1"}, {ID: "q2"}}},
		Current: dto.QuestionView{ID: questionID, Prompt: "Prompt " + questionID},
	}
}

func TestSaveDraftCmdRecordsUnsavedText(t *testing.T) {
	t.Parallel()
	port := &fakePort{status: statusFor("q1", "in-progress")}
	m := New(port, time.Hour)
	m, _ = m.Update(StatusMsg{Status: port.status})
	if m.SaveDraftCmd() != nil {
		t.Fatalf("empty editor must not produce a draft")
	}

	m.editor.SetValue("  my draft  ")
	cmd := m.SaveDraftCmd()
	if cmd == nil {
		t.Fatalf("expected draft save command")
	}
	msg, ok := cmd().(StatusMsg)
	if !ok || msg.Err != nil {
		t.Fatalf("unexpected message %#v", msg)
	}
	if len(port.answers) != 1 || port.answers[0].QuestionID != "q1" || port.answers[0].Content != "my draft" {
		t.Fatalf("unexpected answers %+v", port.answers)
	}
	m, _ = m.Update(msg)
	if _, dirty := m.Draft(); dirty {
		t.Fatalf("saved text must not be reported as a draft")
	}
}

func TestTickDoesNotClobberTyping(t *testing.T) {
	t.Parallel()
	port := &fakePort{status: statusFor("q1", "in-progress")}
	m := New(port, time.Hour)
	m, _ = m.Update(StatusMsg{Status: port.status})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.editor.SetValue("half typed")
	m, _ = m.Update(StatusMsg{Status: port.status})
	if m.editor.Value() != "half typed" {
		t.Fatalf("status refresh replaced editor text: %q", m.editor.Value())
	}

	m, _ = m.Update(StatusMsg{Status: statusFor("q2", "in-progress")})
	if m.editor.Value() != "" || m.draftFor != "q2" {
		t.Fatalf("moving to a new question must reset the editor")
	}
}

func TestCompletedOrMissingSessionHasNoDraft(t *testing.T) {
	t.Parallel()
	port := &fakePort{status: statusFor("q1", "completed")}
	m := New(port, time.Hour)
	m, _ = m.Update(StatusMsg{Status: port.status})
	m.editor.SetValue("late text")
	if _, dirty := m.Draft(); dirty {
		t.Fatalf("completed sessions take no drafts")
	}
	m, _ = m.Update(StatusMsg{Err: apperrors.ErrNoActiveSession})
	if m.HasSession() || m.editor.Value() != "" {
		t.Fatalf("expected session reset")
	}
}

func TestClock(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   time.Duration
		want string
	}{
		{in: 0, want: "0:00"},
		{in: -time.Second, want: "0:00"},
		{in: 65 * time.Second, want: "1:05"},
		{in: time.Hour + 2*time.Minute + 3*time.Second, want: "1:02:03"},
	}
	for _, tc := range cases {
		if got := Clock(tc.in); got != tc.want {
			t.Fatalf("Clock(%s) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
