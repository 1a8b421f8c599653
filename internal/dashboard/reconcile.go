package dashboard

import "github.com/userdeck/userdeck/internal/directory"

// ReconcileCreated builds the record shown after a create. The remote echoes
// a partial record without the organization, so it is rebuilt from the
// submitted input and the image is blanked. A missing id, or one that
// collides with a visible record, is replaced by nextID().
func ReconcileCreated(resp directory.Record, in directory.RecordInput, visible []directory.Record, nextID func() int64) directory.Record {
	out := directory.Record{
		ID:        resp.ID,
		FirstName: firstNonEmpty(resp.FirstName, in.FirstName),
		LastName:  firstNonEmpty(resp.LastName, in.LastName),
		Email:     firstNonEmpty(resp.Email, in.Email),
		Phone:     firstNonEmpty(resp.Phone, in.Phone),
		Age:       resp.Age,
		Company:   in.Company,
	}
	if out.Age == 0 {
		out.Age = in.Age
	}
	if out.ID == 0 || containsID(visible, out.ID) {
		out.ID = nextID()
	}
	return out
}

// ReconcileUpdated overlays the remote response on the previous record and
// takes the organization from the submitted input. The id never changes.
func ReconcileUpdated(prev, resp directory.Record, in directory.RecordInput) directory.Record {
	out := prev
	out.FirstName = firstNonEmpty(resp.FirstName, in.FirstName, prev.FirstName)
	out.LastName = firstNonEmpty(resp.LastName, in.LastName, prev.LastName)
	out.Email = firstNonEmpty(resp.Email, in.Email, prev.Email)
	out.Phone = firstNonEmpty(resp.Phone, in.Phone, prev.Phone)
	switch {
	case resp.Age != 0:
		out.Age = resp.Age
	case in.Age != 0:
		out.Age = in.Age
	}
	if resp.Image != "" {
		out.Image = resp.Image
	}
	out.Company = in.Company
	return out
}

// LocalRecord is the result of editing a record that only exists in the view.
func LocalRecord(prev directory.Record, in directory.RecordInput) directory.Record {
	return ReconcileUpdated(prev, directory.Record{}, in)
}

func containsID(records []directory.Record, id int64) bool {
	for _, r := range records {
		if r.ID == id {
			return true
		}
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
