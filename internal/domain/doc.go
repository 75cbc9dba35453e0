// Package domain models the environmental damage survey and the aggregation
// behind the dashboard.
//
// # Data Source
//
// The survey table has one row per country and year with three measures in
// tonnes: water pollution, soil contamination and deforestation. Surveys ran
// every other year from 2010 to 2020. Rows labelled "European Union" (with or
// without a membership suffix) are regional totals; they are excluded before
// any filtering so they never compete with member states for a maximum.
//
// # Aggregation
//
// [Aggregate] is a pure function of a [Dataset] and a [Selection]. For every
// group ("All", or each selected country) it yields:
//
//   - the per-year maximum series, ascending, without zero-filled gaps;
//   - the raw values, which feed the box plot and [Describe];
//   - the peak row; ties go to the row that appears first in the dataset.
//
// # Validation
//
// Invalid selections are rejected with a [ValidationError] whose Warning is the
// message shown in place of the charts. The checks and their order are: no
// country chosen, "All" mixed with countries, min year above max year, year
// outside 2010 to 2020, unknown metric, unknown country.
package domain
