package alignment

// Local performs local alignment using the Smith-Waterman algorithm with
// affine gaps.
//
// The traceback starts at the first maximum-scoring cell in row-major order
// and stops where the path restarted from zero. The unaligned flanks are
// reported as ClipStart/ClipEnd operations. When no positive-scoring pair of
// substrings exists the score is 0 and the aligned region is empty.
func (alg *Aligner) Local(x, y []byte) (*Alignment, error) {
	sc, err := alg.validate(x, y)
	if err != nil {
		return nil, err
	}

	m, n := len(x), len(y)
	ptr := alg.prepare(m, n, true)

	maxScore, maxI, maxJ := alg.fillLocal(x, y, sc, ptr)

	a := &Alignment{
		Score: maxScore,
		XLen:  m,
		YLen:  n,
		Mode:  Local,
	}
	if maxScore <= 0 {
		a.Score = 0
		alg.ops = alg.ops[:0]
		a.Operations = alg.buildOperations(0, 0, m, 0, 0, n)
		return a, nil
	}

	// Traceback
	a.XStart, a.YStart = alg.traceback(x, y, ptr, n+1, maxI, maxJ, layerM)
	a.XEnd, a.YEnd = maxI, maxJ
	a.Operations = alg.buildOperations(a.XStart, a.XEnd, m, a.YStart, a.YEnd, n)

	return a, nil
}

// fillLocal fills the DP rows, and the pointer matrix when ptr is not nil.
// A diagonal cell restarts from zero whenever no predecessor is positive.
// It returns the maximum score and the cell holding it.
func (alg *Aligner) fillLocal(x, y []byte, sc *Scoring, ptr []pointer) (int, int, int) {
	m, n := len(x), len(y)
	w := n + 1
	open, extend := sc.GapOpenPenalty, sc.GapExtendPenalty

	prevM, prevI, prevD := alg.rows[0], alg.rows[1], alg.rows[2]
	curM, curI, curD := alg.rows[3], alg.rows[4], alg.rows[5]

	for j := 0; j <= n; j++ {
		prevM[j], prevI[j], prevD[j] = negInf, negInf, negInf
		if ptr != nil {
			ptr[j] = startPointer
		}
	}

	// Track maximum score and position
	maxScore := 0
	maxI, maxJ := 0, 0

	var vm, vi, vd int
	var fm, fi, fd byte
	for i := 1; i <= m; i++ {
		a := x[i-1]
		row := i * w

		curM[0], curI[0], curD[0] = negInf, negInf, negInf
		if ptr != nil {
			ptr[row] = startPointer
		}

		for j := 1; j <= n; j++ {
			vm, fm = best3(prevM[j-1], prevI[j-1], prevD[j-1])
			if vm <= 0 {
				vm, fm = 0, layerStart
			}
			curM[j] = vm + sc.score(a, y[j-1])

			vi, fi = best3(curM[j-1]+open, curI[j-1]+extend, curD[j-1]+open)
			curI[j] = vi

			vd, fd = best3(prevM[j]+open, prevI[j]+open, prevD[j]+extend)
			curD[j] = vd

			if ptr != nil {
				ptr[row+j] = makePointer(fm, fi, fd)
			}

			if curM[j] > maxScore {
				maxScore = curM[j]
				maxI, maxJ = i, j
			}
		}

		prevM, curM = curM, prevM
		prevI, curI = curI, prevI
		prevD, curD = curD, prevD
	}

	return maxScore, maxI, maxJ
}
