package searcher

import "math"

type scorer interface {
	evaluate(e *edge) float64
}

type puct struct {
	numerator float64
}

func newPUCT(c float64, N int) puct {
	return puct{numerator: c * math.Sqrt(float64(N))}
}

func (p puct) evaluate(e *edge) float64 {
	// PUCT = Q + c*P*sqrt(N)/(1+n)
	return e.q + p.numerator*e.p/(1+float64(e.n))
}

type uct struct {
	numerator float64
}

func newUCT(cSquared float64, N int) uct {
	if N == 0 {
		panic("N cannot be 0")
	}
	return uct{numerator: cSquared * math.Log(float64(N))}
}

func (u uct) evaluate(e *edge) float64 {
	if e.n == 0 {
		panic("n cannot be 0")
	}
	n := float64(e.n)
	// UCT = wins/n + sqrt(c^2*ln(N)/n)
	return e.wins/n + math.Sqrt(u.numerator/n)
}

func newScorer(strategy Strategy, c float64, N int) scorer {
	if strategy == UCB1 {
		return newUCT(c*c, N)
	}
	return newPUCT(c, N)
}
