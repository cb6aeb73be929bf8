package services

// CronbachAlpha computes Cronbach's alpha for a [sessions][items] matrix of
// scored item values. Population variance (divide by N) is used throughout,
// so perfectly correlated items yield 1.0. Ragged or degenerate input yields 0.
func CronbachAlpha(matrix [][]float64) float64 {
	n := len(matrix)
	if n == 0 {
		return 0
	}
	k := len(matrix[0])
	if k < 2 {
		return 0
	}

	means := make([]float64, k)
	totals := make([]float64, n)
	for i, row := range matrix {
		if len(row) != k {
			return 0
		}
		for j, v := range row {
			means[j] += v
			totals[i] += v
		}
	}
	for j := range means {
		means[j] /= float64(n)
	}

	var sumItemVars float64
	for j := 0; j < k; j++ {
		var sum float64
		for i := 0; i < n; i++ {
			d := matrix[i][j] - means[j]
			sum += d * d
		}
		sumItemVars += sum / float64(n)
	}

	totalVar := populationVariance(totals)
	if totalVar == 0 {
		return 0
	}

	kf := float64(k)
	alpha := (kf / (kf - 1.0)) * (1.0 - (sumItemVars / totalVar))
	if alpha < 0 {
		return 0
	}
	if alpha > 1 {
		return 1
	}
	return alpha
}

func populationVariance(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var mean float64
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	var v float64
	for _, x := range xs {
		d := x - mean
		v += d * d
	}
	return v / float64(len(xs))
}
