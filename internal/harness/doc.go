// Package harness verifies a source-to-source converter case by case.
//
// Every case yields three independent verdicts:
//
//   - text: the converted plain source equals the expected text, ignoring
//     only line-ending style and trailing whitespace;
//   - completeness: every probe marker injected into an annotated copy of the
//     source reappears in the converted output;
//   - order: the recovered markers appear in the same sequence they were
//     injected.
//
// A converter that merges two lines loses a marker (completeness fails even
// if the survivors stay ordered). A converter that hoists or reorders
// statements keeps every marker but changes the sequence (only order fails).
//
// # Directions
//
// C# to VB probes use "//" and skip "#region" lines; VB to C# probes use "'"
// and accept every line. Lines that already carry a comment are never probed,
// so a line whose position legitimately changes can opt out by adding a
// comment to it. A whole case opts out with Case.SkipOrderCheck.
//
// # Recharacterization
//
// WithRecharacterize(true) rewrites each mismatching fixture with the actual
// output. It is an authoring aid only: every text verdict fails while it is
// enabled, so a run can never pass with it left on. Fixture writes are
// last-writer-wins; do not recharacterize cases sharing a fixture
// concurrently.
//
// # Usage
//
//	checker := harness.New(map[harness.Direction]convert.Converter{
//	    harness.CSToVB: csToVB,
//	    harness.VBToCS: vbToCS,
//	}, harness.WithLogger(logger))
//	reports := checker.RunAll(ctx, cases, 8)
//	summary := harness.Summarize(reports)
package harness
