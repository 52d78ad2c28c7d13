package routing

import (
	"container/heap"
	"context"
	"cvrp-route-service/internal/domain"
	"fmt"
)

// label is one queue entry of the label-setting search. Node 0 is the
// depot; node i > 0 is stops[i-1]. remaining is the vehicle capacity left
// after delivering at node along this label's path.
type label struct {
	node      int
	cost      domain.TravelMeasurement
	remaining int
	seq       int
}

type labelQueue []label

func (q labelQueue) Len() int { return len(q) }

func (q labelQueue) Less(i, j int) bool {
	if q[i].cost != q[j].cost {
		return q[i].cost.BetterThan(q[j].cost)
	}
	return q[i].seq < q[j].seq
}

func (q labelQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *labelQueue) Push(x any) { *q = append(*q, x.(label)) }

func (q *labelQueue) Pop() any {
	old := *q
	l := old[len(old)-1]
	*q = old[:len(old)-1]
	return l
}

type predecessor struct {
	node     int
	viaDepot bool
}

// shortestPath runs a Dijkstra-style search from the depot. Each label
// carries its own remaining capacity; reaching a stop whose demand does not
// fit detours through the depot and refills. Stops are then delivered in
// settle order, replaying each stop's best path from the vehicle's position.
//
// Stops larger than a full vehicle are split by the assembler bookkeeping.
type shortestPath struct {
	meter Meter
}

func (s *shortestPath) CalculateRoute(
	ctx context.Context,
	depot domain.Stop,
	stops []domain.Stop,
	capacity int,
) (domain.Route, error) {
	depot, err := prepare(depot, stops, capacity)
	if err != nil {
		return domain.Route{}, fmt.Errorf("shortest path: %w", err)
	}

	nodes := make([]domain.Stop, 0, len(stops)+1)
	nodes = append(nodes, depot)
	nodes = append(nodes, stops...)

	settled, pred, err := s.search(ctx, nodes, capacity)
	if err != nil {
		return domain.Route{}, fmt.Errorf("shortest path: %w", err)
	}

	b := newTripBuilder(ctx, s.meter, depot, capacity)
	for _, v := range settled {
		p := pred[v]
		if p.viaDepot || b.at.ID != nodes[p.node].ID {
			b.refill()
			for _, hop := range pathFromDepot(pred, v) {
				b.drive(nodes[hop], 0)
			}
		}
		b.deliver(nodes[v])
	}

	return b.finish(ShortestPath), nil
}

// search settles every stop once and returns them in settle order along
// with the predecessor of each node on its best path.
func (s *shortestPath) search(
	ctx context.Context,
	nodes []domain.Stop,
	capacity int,
) ([]int, map[int]predecessor, error) {
	best := make(map[int]domain.TravelMeasurement, len(nodes))
	pred := make(map[int]predecessor, len(nodes))
	done := make([]bool, len(nodes))
	settled := make([]int, 0, len(nodes)-1)

	q := &labelQueue{}
	seq := 0
	push := func(l label) {
		l.seq = seq
		seq++
		heap.Push(q, l)
	}

	best[0] = domain.TravelMeasurement{}
	push(label{node: 0, remaining: capacity})

	for q.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		l := heap.Pop(q).(label)
		if done[l.node] {
			continue
		}
		if b, ok := best[l.node]; ok && b.BetterThan(l.cost) {
			continue
		}
		done[l.node] = true
		if l.node != 0 {
			settled = append(settled, l.node)
		}

		u := nodes[l.node]
		for v := 1; v < len(nodes); v++ {
			if done[v] {
				continue
			}

			cost := l.cost
			start := l.remaining
			viaDepot := false
			if nodes[v].Demand > l.remaining && l.node != 0 {
				cost = cost.Add(s.meter.Measure(ctx, u.Coordinates, nodes[0].Coordinates))
				cost = cost.Add(s.meter.Measure(ctx, nodes[0].Coordinates, nodes[v].Coordinates))
				start = capacity
				viaDepot = true
			} else {
				cost = cost.Add(s.meter.Measure(ctx, u.Coordinates, nodes[v].Coordinates))
			}

			if b, ok := best[v]; ok && !cost.BetterThan(b) {
				continue
			}
			best[v] = cost
			pred[v] = predecessor{node: l.node, viaDepot: viaDepot}
			push(label{node: v, cost: cost, remaining: remainingAfter(start, nodes[v].Demand, capacity)})
		}
	}

	return settled, pred, nil
}

// pathFromDepot lists the nodes between the last depot visit on v's best
// path and v itself, in driving order.
func pathFromDepot(pred map[int]predecessor, v int) []int {
	var rev []int
	for cur := v; ; {
		p := pred[cur]
		if p.viaDepot || p.node == 0 {
			break
		}
		rev = append(rev, p.node)
		cur = p.node
	}

	out := make([]int, len(rev))
	for i, n := range rev {
		out[len(rev)-1-i] = n
	}
	return out
}

// remainingAfter mirrors the assembler: deliver demand starting with
// start units, refilling whenever the vehicle empties.
func remainingAfter(start, demand, capacity int) int {
	r := start
	for demand > 0 {
		if demand > r {
			demand -= r
			r = capacity
			continue
		}
		r -= demand
		demand = 0
	}
	if r == 0 {
		r = capacity
	}
	return r
}
