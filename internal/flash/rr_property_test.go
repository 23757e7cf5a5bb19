package flash_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/jmaravall/phaseq/internal/eos"
	"github.com/jmaravall/phaseq/internal/flash"
)

var _ = Describe("Rachford-Rice", func() {
	Describe("the reference binary split", func() {
		// z = [0.5 0.5], K = [2 0.5] has the exact solution beta = 1/2.
		var res flash.Result

		BeforeEach(func() {
			var err error
			res, err = flash.SolveRR([]float64{0.5, 0.5}, []float64{2.0, 0.5})
			Expect(err).NotTo(HaveOccurred())
		})

		It("finds a vapor fraction strictly inside (0, 1)", func() {
			Expect(res.Beta).To(BeNumerically(">", 0))
			Expect(res.Beta).To(BeNumerically("<", 1))
			Expect(res.Beta).To(BeNumerically("~", 0.5, 1e-9))
		})

		It("returns phase compositions inside the simplex", func() {
			for i := range res.X {
				Expect(res.X[i]).To(BeNumerically(">=", 0))
				Expect(res.X[i]).To(BeNumerically("<=", 1))
				Expect(res.Y[i]).To(BeNumerically(">=", 0))
				Expect(res.Y[i]).To(BeNumerically("<=", 1))
			}
			Expect(sum(res.X)).To(BeNumerically("~", 1, 1e-10))
			Expect(sum(res.Y)).To(BeNumerically("~", 1, 1e-10))
		})
	})

	DescribeTable("mass balance holds for every feed",
		func(z, K []float64) {
			res, err := flash.SolveRR(z, K)
			Expect(err).NotTo(HaveOccurred())
			for i := range z {
				recon := res.Beta*res.Y[i] + (1-res.Beta)*res.X[i]
				Expect(recon).To(BeNumerically("~", z[i], 1e-9))
			}
		},
		Entry("binary symmetric", []float64{0.5, 0.5}, []float64{2.0, 0.5}),
		Entry("binary skewed", []float64{0.9, 0.1}, []float64{1.5, 0.2}),
		Entry("ternary", []float64{0.3, 0.3, 0.4}, []float64{3.0, 1.2, 0.4}),
		Entry("wide K spread", []float64{0.25, 0.25, 0.5}, []float64{25.0, 1.5, 0.05}),
	)

	It("is strictly monotone on the feasible bracket", func() {
		z := []float64{0.4, 0.6}
		K := []float64{3.0, 0.25}
		g := func(beta float64) float64 {
			s := 0.0
			for i := range z {
				s += z[i] * (K[i] - 1) / (1 + beta*(K[i]-1))
			}
			return s
		}
		prev := g(0)
		for beta := 0.05; beta <= 1.0; beta += 0.05 {
			cur := g(beta)
			Expect(cur).To(BeNumerically("<", prev))
			prev = cur
		}
		// The solver's root is the unique zero of that monotone
		// function.
		res, err := flash.SolveRR(z, K)
		Expect(err).NotTo(HaveOccurred())
		Expect(math.Abs(g(res.Beta))).To(BeNumerically("<", 1e-9))
	})

	It("reports the trivial all-K-near-one case as degenerate", func() {
		_, err := flash.SolveRR([]float64{0.5, 0.5}, []float64{1 + 1e-10, 1 - 1e-10})
		Expect(err).To(MatchError(eos.ErrDegenerate))
	})

	DescribeTable("rejects feeds outside the two-phase region",
		func(z, K []float64) {
			_, err := flash.SolveRR(z, K)
			Expect(err).To(MatchError(eos.ErrInfeasible))
		},
		Entry("all K above one", []float64{0.5, 0.5}, []float64{1.2, 1.1}),
		Entry("all K below one", []float64{0.5, 0.5}, []float64{0.9, 0.8}),
	)

	It("rejects malformed input", func() {
		_, err := flash.SolveRR([]float64{0.5, 0.5}, []float64{2.0})
		Expect(err).To(MatchError(eos.ErrOutOfDomain))
		_, err = flash.SolveRR([]float64{0.5, 0.5}, []float64{2.0, -0.5})
		Expect(err).To(MatchError(eos.ErrOutOfDomain))
	})
})

var _ = Describe("multiphase Rachford-Rice", func() {
	It("splits a ternary feed across three phases with closed mass balance", func() {
		z := []float64{0.385, 0.345, 0.27}
		K := [][]float64{
			{1.0 / 3.0, 5.0 / 3.0, 3.0},
			{0.5, 2.0 / 3.0, 5.0},
		}
		res, err := flash.SolveRRN(z, K, nil)
		Expect(err).NotTo(HaveOccurred())

		Expect(sum(res.Fractions)).To(BeNumerically("~", 1, 1e-9))
		Expect(res.Fractions[1]).To(BeNumerically("~", 0.35, 1e-7))
		Expect(res.Fractions[2]).To(BeNumerically("~", 0.25, 1e-7))
		for _, f := range res.Fractions {
			Expect(f).To(BeNumerically(">", 0))
		}
		for i := range z {
			recon := 0.0
			for m := range res.Fractions {
				recon += res.Fractions[m] * res.Compositions[m][i]
			}
			Expect(recon).To(BeNumerically("~", z[i], 1e-8))
		}
	})

	It("collapses to the two-phase answer for a single K row", func() {
		z := []float64{0.5, 0.5}
		two, err := flash.SolveRR(z, []float64{2.0, 0.5})
		Expect(err).NotTo(HaveOccurred())
		multi, err := flash.SolveRRN(z, [][]float64{{2.0, 0.5}}, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(multi.Fractions[1]).To(BeNumerically("~", two.Beta, 1e-8))
	})
})

func sum(v []float64) float64 {
	s := 0.0
	for _, x := range v {
		s += x
	}
	return s
}
