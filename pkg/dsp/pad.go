package dsp

// PadMode selects the padding strategy for Pad1D/Pad2DRows.
type PadMode int

const (
	// PadReflect excludes the edge sample: abcde -> dcb|abcde|dcb.
	PadReflect PadMode = iota
	// PadConstant fills with a caller-supplied value.
	PadConstant
)

// Pad1D pads a 1-D slice with nLeft/nRight samples per mode. Complexity is
// O(output size); reflect mode cycles over forward/reverse edge neighbors
// the same way the original's ndarray Pad impl does, to avoid materializing
// an intermediate reversed copy.
func Pad1D(x []float32, nLeft, nRight int, mode PadMode, constant float32) []float32 {
	out := make([]float32, len(x)+nLeft+nRight)
	copy(out[nLeft:nLeft+len(x)], x)

	switch mode {
	case PadConstant:
		for i := 0; i < nLeft; i++ {
			out[i] = constant
		}
		for i := 0; i < nRight; i++ {
			out[len(out)-1-i] = constant
		}
	case PadReflect:
		if len(x) < 2 {
			panic("dsp: reflect padding requires len(x) >= 2")
		}
		for i := 0; i < nLeft; i++ {
			out[nLeft-1-i] = x[reflectIndex(i+1, len(x))]
		}
		for i := 0; i < nRight; i++ {
			out[len(out)-nRight+i] = x[reflectIndex(len(x)-2-i, len(x))]
		}
	}
	return out
}

// reflectIndex cycles forward through 1..len-2, then backward through
// len-2..1, repeating, matching `skip(1).chain(rev().skip(1)).cycle()`.
func reflectIndex(i, n int) int {
	period := 2 * (n - 1)
	if period <= 0 {
		return 0
	}
	i = ((i % period) + period) % period
	if i < n {
		return i
	}
	return period - i
}

// Pad2DRows pads a row-major 2-D array (rows x cols) along axis 0 (rows)
// with nTop/nBottom rows, matching the original's `Axis(0)` pad.
func Pad2DRows(rows [][]float32, nTop, nBottom int, mode PadMode, constant float32) [][]float32 {
	cols := 0
	if len(rows) > 0 {
		cols = len(rows[0])
	}
	out := make([][]float32, len(rows)+nTop+nBottom)
	for i := range out {
		out[i] = make([]float32, cols)
	}
	for i, r := range rows {
		copy(out[nTop+i], r)
	}
	switch mode {
	case PadConstant:
		for i := 0; i < nTop; i++ {
			fillRow(out[i], constant)
		}
		for i := 0; i < nBottom; i++ {
			fillRow(out[len(out)-1-i], constant)
		}
	case PadReflect:
		n := len(rows)
		for i := 0; i < nTop; i++ {
			copy(out[nTop-1-i], rows[reflectIndex(i+1, n)])
		}
		for i := 0; i < nBottom; i++ {
			copy(out[len(out)-nBottom+i], rows[reflectIndex(n-2-i, n)])
		}
	}
	return out
}

func fillRow(row []float32, v float32) {
	for i := range row {
		row[i] = v
	}
}
