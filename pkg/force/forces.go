package force

import "math"

func (s *Simulation) applyLinks() {
	for _, l := range s.links {
		src, tgt := &s.bodies[l.source], &s.bodies[l.target]

		x := tgt.x + tgt.vx - src.x - src.vx
		if x == 0 {
			x = s.jiggle()
		}
		y := tgt.y + tgt.vy - src.y - src.vy
		if y == 0 {
			y = s.jiggle()
		}

		d := math.Sqrt(x*x + y*y)
		k := (d - l.distance) / d * s.alpha * l.strength
		x *= k
		y *= k

		tgt.vx -= x * l.bias
		tgt.vy -= y * l.bias
		src.vx += x * (1 - l.bias)
		src.vy += y * (1 - l.bias)
	}
}

func (s *Simulation) applyManyBody() {
	max2 := s.opts.DistanceMax * s.opts.DistanceMax
	for i := range s.bodies {
		bi := &s.bodies[i]
		for j := range s.bodies {
			if i == j || s.charges[j] == 0 {
				continue
			}
			bj := &s.bodies[j]

			x := bj.x - bi.x
			y := bj.y - bi.y
			l := x*x + y*y
			if l >= max2 {
				continue
			}
			if x == 0 {
				x = s.jiggle()
				l += x * x
			}
			if y == 0 {
				y = s.jiggle()
				l += y * y
			}
			if l < distanceMin2 {
				l = math.Sqrt(distanceMin2 * l)
			}

			w := s.charges[j] * s.alpha / l
			bi.vx += x * w
			bi.vy += y * w
		}
	}
}
