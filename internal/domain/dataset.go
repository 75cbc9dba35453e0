package domain

import "sort"

// Dataset is the immutable, ordered table loaded once at startup. Row order is
// significant: it decides which record wins a tie for a maximum.
type Dataset struct {
	records   []Record
	countries []string
	known     map[string]struct{}
}

// NewDataset copies records into a Dataset.
func NewDataset(records []Record) Dataset {
	rs := make([]Record, len(records))
	copy(rs, records)

	ds := Dataset{records: rs, known: make(map[string]struct{})}
	for _, r := range rs {
		if r.Excluded() {
			continue
		}
		if _, ok := ds.known[r.Country]; ok {
			continue
		}
		ds.known[r.Country] = struct{}{}
		ds.countries = append(ds.countries, r.Country)
	}
	return ds
}

// Len returns the number of rows, excluded rows included.
func (d Dataset) Len() int { return len(d.records) }

// At returns row i.
func (d Dataset) At(i int) Record { return d.records[i] }

// Countries returns the distinct countries that can be selected, in order of
// first appearance. The EU aggregate is never among them.
func (d Dataset) Countries() []string {
	out := make([]string, len(d.countries))
	copy(out, d.countries)
	return out
}

// HasCountry reports whether country is selectable.
func (d Dataset) HasCountry(country string) bool {
	_, ok := d.known[country]
	return ok
}

// Years returns the distinct years present, ascending.
func (d Dataset) Years() []int {
	seen := make(map[int]struct{})
	var years []int
	for _, r := range d.records {
		if _, ok := seen[r.Year]; ok {
			continue
		}
		seen[r.Year] = struct{}{}
		years = append(years, r.Year)
	}
	sort.Ints(years)
	return years
}
