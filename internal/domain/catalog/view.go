package catalog

// BatchView is a batch with everything needed to present it resolved.
type BatchView struct {
	Batch
	DisplayName  string
	UnitName     string
	UnitType     string
	CategoryName string
	KitName      string
	StageName    string
	TotalPoints  int
	Tags         []string
}

// View resolves a batch's references against the snapshot. Unknown
// references leave the matching fields empty.
func (c *Catalog) View(b Batch) BatchView {
	v := BatchView{
		Batch:       b,
		DisplayName: c.displayNames[b.ID],
		StageName:   b.Stage.String(),
		TotalPoints: c.TotalPoints(b),
	}
	if u, ok := c.units[b.UnitID]; ok {
		v.UnitName = u.Name
		v.UnitType = u.Type.String()
		v.CategoryName = c.tree.CascadingName(u.CategoryID)
	}
	if k, ok := c.kits[b.KitID]; ok {
		v.KitName = k.Display()
	}
	for _, t := range c.TagsOf(b.ID) {
		v.Tags = append(v.Tags, t.Name)
	}
	return v
}

// Views resolves batches in order.
func (c *Catalog) Views(batches []Batch) []BatchView {
	out := make([]BatchView, len(batches))
	for i, b := range batches {
		out[i] = c.View(b)
	}
	return out
}
