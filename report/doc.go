// Package report renders chain and simulation results as CSV tables and
// line charts.
//
// CSV writers take an io.Writer and emit a header row followed by one row
// per record; numbers use the shortest representation that round-trips.
// Charts are drawn with gonum.org/v1/plot and the output format follows
// the file extension (.png, .svg, .pdf, ...).
//
//	report.WriteHistoryCSV(w, states, hist)   // step,<states...>,total
//	report.WriteMatrixCSV(w, states, P)       // from,<states...>
//	report.WriteBandsCSV(w, states, ens)      // step,state,mean,lower,upper
//	report.PlotHistory("hist.png", "loans", states, hist)
package report
