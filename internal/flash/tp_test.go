package flash_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/jmaravall/phaseq/internal/eos"
	"github.com/jmaravall/phaseq/internal/flash"
	"github.com/jmaravall/phaseq/internal/models"
)

func methaneEthanePR() eos.Model {
	ps, err := eos.NewParamSet([]string{"methane", "ethane"}, map[string][]float64{
		"tc":    {190.564, 305.322},
		"pc":    {4.5992e6, 4.8722e6},
		"omega": {0.01142, 0.0995},
	}, nil)
	Expect(err).NotTo(HaveOccurred())
	m, err := models.New("pr", ps)
	Expect(err).NotTo(HaveOccurred())
	return m
}

var _ = Describe("PT flash", func() {
	var m eos.Model
	feed := []float64{0.5, 0.5}
	const T = 200.0

	BeforeEach(func() {
		m = methaneEthanePR()
	})

	It("splits an equimolar methane/ethane feed between bubble and dew", func() {
		res, err := flash.SolveTP(m, 2e6, T, feed, flash.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.TwoPhase).To(BeTrue())
		Expect(res.Beta).To(BeNumerically("~", 0.2503, 2e-3))

		// Methane concentrates in the vapor, ethane in the liquid.
		Expect(res.Y[0]).To(BeNumerically(">", res.X[0]))
		Expect(res.X[1]).To(BeNumerically(">", res.Y[1]))
		Expect(res.X[0]).To(BeNumerically("~", 0.3707, 2e-3))
		Expect(res.Y[0]).To(BeNumerically("~", 0.8873, 2e-3))
		Expect(res.Vvap).To(BeNumerically(">", res.Vliq))

		// Lever rule closes the component balance.
		for i := range feed {
			recon := (1-res.Beta)*res.X[i] + res.Beta*res.Y[i]
			Expect(recon).To(BeNumerically("~", feed[i], 1e-8))
		}

		// Converged K-values equal the fugacity-coefficient ratios.
		phiL := eos.LnPhi(m, eos.State{T: T, V: res.Vliq, N: res.X})
		phiV := eos.LnPhi(m, eos.State{T: T, V: res.Vvap, N: res.Y})
		for i := range feed {
			k := res.Y[i] / res.X[i]
			Expect(math.Log(k)).To(BeNumerically("~", phiL[i]-phiV[i], 1e-6))
		}
	})

	It("reports a compressed feed as single-phase liquid without error", func() {
		res, err := flash.SolveTP(m, 6e6, T, feed, flash.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.TwoPhase).To(BeFalse())
		Expect(res.Beta).To(BeZero())
		Expect(res.X).To(Equal(feed))
		Expect(res.Vliq).To(BeNumerically(">", 0))
	})

	It("reports an expanded feed as single-phase vapor without error", func() {
		res, err := flash.SolveTP(m, 0.2e6, T, feed, flash.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.TwoPhase).To(BeFalse())
		Expect(res.Beta).To(BeNumerically("==", 1))
		Expect(res.Y).To(Equal(feed))
		Expect(res.Vvap).To(BeNumerically(">", 0))
	})

	It("accepts an explicit K seed and still converges to the same split", func() {
		seeded, err := flash.SolveTP(m, 2e6, T, feed, flash.Options{K0: []float64{3, 0.2}})
		Expect(err).NotTo(HaveOccurred())
		unseeded, err := flash.SolveTP(m, 2e6, T, feed, flash.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(seeded.Beta).To(BeNumerically("~", unseeded.Beta, 1e-7))
	})

	It("rejects a feed with a negative mole fraction", func() {
		_, err := flash.SolveTP(m, 2e6, T, []float64{1.2, -0.2}, flash.Options{})
		Expect(err).To(MatchError(eos.ErrOutOfDomain))
	})
})
