package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cronhq/cron-console/internal/controller"
	"github.com/cronhq/cron-console/internal/session"
	"github.com/sirupsen/logrus"
)

const helpText = `Commands:
  list                    refresh and show the job table
  add                     open the form for a new job
  edit <id>               open the form pre-filled from a job
  set <field> <value>     set a form field (command|name|schedule)
  save                    submit the open form
  cancel                  close the form, discarding input
  delete <id>             delete a job (asks for confirmation)
  run <id>                run a job now
  toggle <id>             enable/disable a job
  logs <id>               fetch and show a job's logs
  clearlogs <id>          clear a job's logs (asks for confirmation)
  show <id>               show/hide a job's command
  help                    this text
  quit                    exit`

// Console wires the interactive loop to the controllers. One command per
// line; the form session mirrors the add/edit dialog of the original UI.
type Console struct {
	ctrl   *controller.Controller
	logs   *controller.LogViewer
	modal  *session.Modal
	popups *session.Popups
	view   *TableView
	in     *bufio.Scanner
	out    io.Writer
	logger *logrus.Logger
}

func New(ctrl *controller.Controller, logs *controller.LogViewer, view *TableView, in *bufio.Scanner, out io.Writer, logger *logrus.Logger) *Console {
	return &Console{
		ctrl:   ctrl,
		logs:   logs,
		modal:  session.NewModal(),
		popups: session.NewPopups(),
		view:   view,
		in:     in,
		out:    out,
		logger: logger,
	}
}

// Confirm builds a y/N prompt suitable as the controllers' ConfirmFunc.
func Confirm(in *bufio.Scanner, out io.Writer) controller.ConfirmFunc {
	return func(prompt string) bool {
		fmt.Fprintf(out, "%s [y/N]: ", prompt)
		if !in.Scan() {
			return false
		}
		answer := strings.ToLower(strings.TrimSpace(in.Text()))
		return answer == "y" || answer == "yes"
	}
}

// Run drives the command loop until quit, EOF or context cancellation.
// Navigation away cancels all pending work implicitly.
func (c *Console) Run(ctx context.Context) error {
	if err := c.ctrl.RefreshAll(ctx); err != nil {
		return fmt.Errorf("failed to load job list: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fmt.Fprint(c.out, c.prompt())
		if !c.in.Scan() {
			return nil
		}
		line := strings.TrimSpace(c.in.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return nil
		}
		c.handle(ctx, line)
	}
}

func (c *Console) prompt() string {
	switch c.modal.State() {
	case session.ModalAdd:
		return "(add)> "
	case session.ModalEdit:
		return fmt.Sprintf("(edit %d)> ", c.modal.JobID())
	default:
		return "> "
	}
}

func (c *Console) handle(ctx context.Context, line string) {
	parts := strings.SplitN(line, " ", 3)
	command := parts[0]

	// Any command other than the popup trigger counts as a click outside
	// the popup.
	if command != "show" {
		c.popups.HideAll()
	}

	switch command {
	case "help":
		fmt.Fprintln(c.out, helpText)
	case "list":
		if err := c.ctrl.RefreshAll(ctx); err != nil {
			fmt.Fprintf(c.out, "❌ Failed to refresh job list: %v\n", err)
		}
	case "add":
		c.modal.OpenAdd()
		fmt.Fprintln(c.out, "Form opened. Use 'set command|name|schedule <value>' then 'save'.")
	case "edit":
		c.openEdit(parts)
	case "set":
		c.setField(parts)
	case "save":
		c.save(ctx)
	case "cancel":
		if c.modal.IsOpen() {
			c.modal.Close()
			fmt.Fprintln(c.out, "Form closed.")
		}
	case "delete":
		c.withJobID(parts, func(id int) {
			if _, err := c.ctrl.Delete(ctx, id); err != nil {
				c.reportGuard(err)
			}
		})
	case "run":
		c.withJobID(parts, func(id int) {
			if _, err := c.ctrl.Run(ctx, id); err != nil {
				c.reportGuard(err)
			}
		})
	case "toggle":
		c.withJobID(parts, func(id int) {
			if _, err := c.ctrl.Toggle(ctx, id); err != nil {
				c.reportGuard(err)
			}
		})
	case "logs":
		c.withJobID(parts, func(id int) {
			if _, err := c.logs.Refresh(ctx, id); err != nil {
				c.reportGuard(err)
			}
		})
	case "clearlogs":
		c.withJobID(parts, func(id int) {
			if _, err := c.logs.Clear(ctx, id); err != nil {
				c.reportGuard(err)
			}
		})
	case "show":
		c.withJobID(parts, c.togglePopup)
	default:
		fmt.Fprintf(c.out, "Unknown command %q. Type 'help'.\n", command)
	}
}

func (c *Console) openEdit(parts []string) {
	if len(parts) < 2 {
		fmt.Fprintln(c.out, "Usage: edit <id>")
		return
	}
	id, err := strconv.Atoi(parts[1])
	if err != nil {
		fmt.Fprintf(c.out, "Invalid job id %q\n", parts[1])
		return
	}

	job, found := c.ctrl.Snapshot().Get(id)
	if !found {
		fmt.Fprintf(c.out, "No known job with id %d. Try 'list' first.\n", id)
		return
	}

	c.modal.OpenEdit(job)
	fmt.Fprintf(c.out, "Editing job %d (%s). Use 'set ...' then 'save'.\n", id, job.Name)
}

func (c *Console) setField(parts []string) {
	if !c.modal.IsOpen() {
		fmt.Fprintln(c.out, "No form open. Use 'add' or 'edit <id>' first.")
		return
	}
	if len(parts) < 3 {
		fmt.Fprintln(c.out, "Usage: set command|name|schedule <value>")
		return
	}

	switch parts[1] {
	case "command":
		c.modal.SetCommand(parts[2])
	case "name":
		c.modal.SetName(parts[2])
	case "schedule":
		c.modal.SetSchedule(parts[2])
	default:
		fmt.Fprintf(c.out, "Unknown field %q\n", parts[1])
	}
}

// save submits the form. On success the form closes; on a validation
// failure it stays open so input is not lost.
func (c *Console) save(ctx context.Context) {
	switch c.modal.State() {
	case session.ModalAdd:
		outcome, err := c.ctrl.Create(ctx, c.modal.Fields())
		if err != nil {
			c.reportGuard(err)
			return
		}
		if outcome.OK() {
			c.modal.Close()
		}
	case session.ModalEdit:
		outcome, err := c.ctrl.Update(ctx, c.modal.JobID(), c.modal.Fields())
		if err != nil {
			c.reportGuard(err)
			return
		}
		if outcome.OK() {
			c.modal.Close()
		}
	default:
		fmt.Fprintln(c.out, "No form open. Use 'add' or 'edit <id>' first.")
	}
}

func (c *Console) togglePopup(id int) {
	c.popups.Toggle(id)
	if visible, shown := c.popups.Visible(); shown {
		job, found := c.ctrl.Snapshot().Get(visible)
		if !found {
			fmt.Fprintf(c.out, "No known job with id %d. Try 'list' first.\n", visible)
			c.popups.HideAll()
			return
		}
		fmt.Fprintf(c.out, "Command for job %d: %s\n", job.ID, job.Command)
	}
}

func (c *Console) withJobID(parts []string, fn func(id int)) {
	if len(parts) < 2 {
		fmt.Fprintf(c.out, "Usage: %s <id>\n", parts[0])
		return
	}
	id, err := strconv.Atoi(parts[1])
	if err != nil {
		fmt.Fprintf(c.out, "Invalid job id %q\n", parts[1])
		return
	}
	fn(id)
}

func (c *Console) reportGuard(err error) {
	switch err {
	case controller.ErrInFlight:
		fmt.Fprintln(c.out, "Still waiting on the previous request for this job.")
	case controller.ErrNotConfirmed:
		fmt.Fprintln(c.out, "Cancelled.")
	default:
		c.logger.Errorf("Action failed: %v", err)
		fmt.Fprintf(c.out, "❌ %v\n", err)
	}
}
