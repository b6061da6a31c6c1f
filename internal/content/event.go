package content

// Event is a story beat that pays out a fixed reward list when completed.
type Event struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Rewards []Reward `json:"rewards"`
}

// Clone returns a deep copy of the event.
func (e Event) Clone() Event {
	out := e
	if e.Rewards != nil {
		out.Rewards = make([]Reward, len(e.Rewards))
		for i, r := range e.Rewards {
			out.Rewards[i] = r.Clone()
		}
	}
	return out
}
