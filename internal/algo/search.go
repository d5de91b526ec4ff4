package algo

import "github.com/san-kum/sortviz/internal/pacer"

// compareDivisor shortens the compare phase of binary search relative to the
// highlight phase.
const compareDivisor = 1.5

func (r *Runner) linearSearch(target int) (int, error) {
	for i := 0; i < r.arr.Len(); i++ {
		if err := r.checkpoint(); err != nil {
			return -1, err
		}
		r.highlight(RoleCompare, true, i)
		if err := r.wait(); err != nil {
			return -1, err
		}
		v, err := r.get(i)
		if err != nil {
			return -1, err
		}
		r.compare(i)
		r.highlight(RoleCompare, false, i)
		if v == target {
			r.found(i, v)
			return i, nil
		}
	}
	return -1, nil
}

// binarySearch sorts the array first; searching an unsorted array is never
// silently attempted.
func (r *Runner) binarySearch(target int) (int, error) {
	if !r.arr.IsSorted() {
		r.arr.SortAscending()
		RenderAll(r.render, r.arr)
	}

	left, right := 0, r.arr.Len()-1
	for left <= right {
		if err := r.checkpoint(); err != nil {
			return -1, err
		}
		mid := (left + right) / 2

		r.highlight(RoleMid, true, mid)
		if err := r.wait(); err != nil {
			return -1, err
		}
		r.highlight(RoleCompare, true, mid)
		r.stats.Steps++
		if err := r.pace.WaitFor(pacer.Scale(r.pace.Delay(), compareDivisor)); err != nil {
			return -1, err
		}

		v, err := r.get(mid)
		if err != nil {
			return -1, err
		}
		r.compare(mid)
		r.highlight(RoleCompare, false, mid)
		r.highlight(RoleMid, false, mid)
		if v == target {
			r.found(mid, v)
			return mid, nil
		}
		if v < target {
			left = mid + 1
		} else {
			right = mid - 1
		}
	}
	return -1, nil
}
