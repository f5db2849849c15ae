package harvest_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"eveanchor/internal/domain/harvest"
	"eveanchor/internal/lp"
)

const tolerance = 1e-6

type scenario struct {
	capacity harvest.Capacity
	demand   harvest.Demand
	records  []harvest.YieldRecord
	days     float64
}

// twoKeyScenario spreads 16 planets over two keys. Each planet yields
// silicate glass and liquid ozone; the second key also yields nanites.
func twoKeyScenario() scenario {
	s := scenario{capacity: harvest.NewCapacity(), demand: harvest.Demand{}, days: 7}
	s.capacity.ByKey["Tanoo"] = 264
	s.capacity.ByKey["Sooma"] = 88
	for i := int64(0); i < 12; i++ {
		loc := 40000002 + i
		s.capacity.ByLocation[loc] = 22
		s.records = append(s.records,
			harvest.YieldRecord{Key: "Tanoo", LocationID: loc, ResourceID: int64(harvest.SilicateGlass), OutputRate: 8 + float64(i)},
			harvest.YieldRecord{Key: "Tanoo", LocationID: loc, ResourceID: int64(harvest.LiquidOzone), OutputRate: 150 - float64(i)},
		)
	}
	for i := int64(0); i < 6; i++ {
		loc := 40000101 + i
		s.capacity.ByLocation[loc] = 22
		s.records = append(s.records,
			harvest.YieldRecord{Key: "Sooma", LocationID: loc, ResourceID: int64(harvest.Nanites), OutputRate: 3},
			harvest.YieldRecord{Key: "Sooma", LocationID: loc, ResourceID: int64(harvest.LiquidOzone), OutputRate: 120},
		)
	}
	s.demand[int64(harvest.SilicateGlass)] = 1
	s.demand[int64(harvest.Nanites)] = 20000
	return s
}

func build(s scenario) (*harvest.Problem, []harvest.Handle) {
	values := harvest.NewValueTable()
	values.Set(int64(harvest.SilicateGlass), 1011.34)
	values.Set(int64(harvest.LiquidOzone), 166.13)
	values.Set(int64(harvest.Nanites), 2500)

	p := harvest.NewProblem(s.capacity, s.demand, values, s.days)
	handles := make([]harvest.Handle, 0, len(s.records))
	for _, r := range s.records {
		h, err := p.AddResource(r)
		Expect(err).NotTo(HaveOccurred())
		handles = append(handles, h)
	}
	p.AddFuel(int64(harvest.LiquidOzone), 13, 18000, 5)
	return p, handles
}

var _ = Describe("Problem.Solve", func() {
	var (
		s       scenario
		problem *harvest.Problem
		allocs  []harvest.Allocation
	)

	BeforeEach(func() {
		s = twoKeyScenario()
		problem, _ = build(s)
		sol, err := problem.Solve(lp.Simplex{})
		Expect(err).NotTo(HaveOccurred())
		allocs = problem.Allocations(sol)
	})

	It("allocates exactly the available arrays", func() {
		var total float64
		for _, a := range allocs {
			Expect(a.Arrays).To(BeNumerically(">=", -tolerance))
			total += a.Arrays
		}
		Expect(total).To(BeNumerically("~", float64(problem.AvailableArrays()), tolerance))
		Expect(problem.AvailableArrays()).To(Equal(352))
	})

	It("keeps every key and location within capacity", func() {
		byKey := map[string]float64{}
		byLocation := map[int64]float64{}
		for _, a := range allocs {
			byKey[a.Record.Key] += a.Arrays
			byLocation[a.Record.LocationID] += a.Arrays
		}
		for key, used := range byKey {
			Expect(used).To(BeNumerically("<=", float64(s.capacity.ByKey[key])+tolerance), "key %s", key)
		}
		for loc, used := range byLocation {
			Expect(used).To(BeNumerically("<=", float64(s.capacity.ByLocation[loc])+tolerance), "location %d", loc)
		}
	})

	It("covers every demanded resource including fuel", func() {
		produced := map[int64]float64{}
		for _, a := range allocs {
			produced[a.Record.ResourceID] += a.Arrays * a.Record.OutputRate * s.days * harvest.HoursPerDay
		}
		for id, need := range problem.Demand() {
			Expect(produced[id]).To(BeNumerically(">=", need*(1-tolerance)), "resource %d", id)
		}
		Expect(problem.Demand()[int64(harvest.LiquidOzone)]).To(BeNumerically(">", 0))
	})

	It("returns the same allocation when solved again", func() {
		again, _ := build(s)
		sol, err := again.Solve(lp.Simplex{})
		Expect(err).NotTo(HaveOccurred())
		second := again.Allocations(sol)
		Expect(second).To(HaveLen(len(allocs)))
		for i := range allocs {
			Expect(second[i].Arrays).To(BeNumerically("~", allocs[i].Arrays, tolerance))
		}
	})
})

var _ = Describe("Problem.AddFuel", func() {
	It("never lowers existing demand", func() {
		demand := harvest.Demand{int64(harvest.SilicateGlass): 3, int64(harvest.LiquidOzone): 7}
		p := harvest.NewProblem(harvest.NewCapacity(), demand, harvest.NewValueTable(), 7)
		before := p.Demand()
		p.AddFuel(int64(harvest.LiquidOzone), 13, 18000, 2)
		after := p.Demand()

		Expect(after[int64(harvest.LiquidOzone)]).To(BeNumerically(">", before[int64(harvest.LiquidOzone)]))
		Expect(after[int64(harvest.SilicateGlass)]).To(Equal(before[int64(harvest.SilicateGlass)]))
	})
})
