package session

// Popups tracks the transient "show command" disclosures. At most one popup
// is visible at a time; showing one hides the others. Purely presentational,
// no server interaction and no error states.
type Popups struct {
	visible int
	shown   bool
}

func NewPopups() *Popups {
	return &Popups{}
}

// Show makes the popup for jobID the only visible one.
func (p *Popups) Show(jobID int) {
	p.visible = jobID
	p.shown = true
}

// Toggle shows the popup, or hides it if it was already the visible one.
func (p *Popups) Toggle(jobID int) {
	if p.shown && p.visible == jobID {
		p.HideAll()
		return
	}
	p.Show(jobID)
}

// HideAll hides any visible popup. A click outside the trigger elements
// lands here.
func (p *Popups) HideAll() {
	p.visible = 0
	p.shown = false
}

// Visible returns the job id of the visible popup, if any.
func (p *Popups) Visible() (int, bool) {
	return p.visible, p.shown
}
