package alignment

// Global performs global alignment using the Needleman-Wunsch algorithm
// with Gotoh's three-layer affine gap recurrences.
//
// Every residue of both sequences is aligned, so the trace carries no clips.
// Empty sequences are valid: the score is then the cost of one gap run over
// the other sequence.
func (alg *Aligner) Global(x, y []byte) (*Alignment, error) {
	sc, err := alg.validate(x, y)
	if err != nil {
		return nil, err
	}

	m, n := len(x), len(y)
	ptr := alg.prepare(m, n, true)

	score, layer := alg.fillGlobal(x, y, sc, ptr)

	// Traceback from bottom-right corner
	alg.traceback(x, y, ptr, n+1, m, n, layer)

	return &Alignment{
		Score:      score,
		XStart:     0,
		XEnd:       m,
		YStart:     0,
		YEnd:       n,
		XLen:       m,
		YLen:       n,
		Mode:       Global,
		Operations: alg.buildOperations(0, m, m, 0, n, n),
	}, nil
}

// fillGlobal fills the DP rows, and the pointer matrix when ptr is not nil.
// It returns the optimal score and the layer it ends in.
func (alg *Aligner) fillGlobal(x, y []byte, sc *Scoring, ptr []pointer) (int, byte) {
	m, n := len(x), len(y)
	w := n + 1
	open, extend := sc.GapOpenPenalty, sc.GapExtendPenalty

	prevM, prevI, prevD := alg.rows[0], alg.rows[1], alg.rows[2]
	curM, curI, curD := alg.rows[3], alg.rows[4], alg.rows[5]

	// First row: only a leading gap in x can reach it
	prevM[0], prevI[0], prevD[0] = 0, negInf, negInf
	if ptr != nil {
		ptr[0] = startPointer
	}
	for j := 1; j <= n; j++ {
		prevM[j], prevD[j] = negInf, negInf
		from := layerI
		if j == 1 {
			prevI[j] = open
			from = layerM
		} else {
			prevI[j] = prevI[j-1] + extend
		}
		if ptr != nil {
			ptr[j] = makePointer(layerStart, from, layerStart)
		}
	}

	var vm, vi, vd int
	var fm, fi, fd byte
	for i := 1; i <= m; i++ {
		a := x[i-1]
		row := i * w

		// First column: only a leading gap in y
		curM[0], curI[0] = negInf, negInf
		from := layerD
		if i == 1 {
			curD[0] = open
			from = layerM
		} else {
			curD[0] = prevD[0] + extend
		}
		if ptr != nil {
			ptr[row] = makePointer(layerStart, layerStart, from)
		}

		for j := 1; j <= n; j++ {
			vm, fm = best3(prevM[j-1], prevI[j-1], prevD[j-1])
			curM[j] = vm + sc.score(a, y[j-1])

			vi, fi = best3(curM[j-1]+open, curI[j-1]+extend, curD[j-1]+open)
			curI[j] = vi

			vd, fd = best3(prevM[j]+open, prevI[j]+open, prevD[j]+extend)
			curD[j] = vd

			if ptr != nil {
				ptr[row+j] = makePointer(fm, fi, fd)
			}
		}

		prevM, curM = curM, prevM
		prevI, curI = curI, prevI
		prevD, curD = curD, prevD
	}

	return best3(prevM[n], prevI[n], prevD[n])
}
