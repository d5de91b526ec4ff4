package algo

// bubbleSort records one pass per outer iteration that compares anything.
func (r *Runner) bubbleSort() error {
	n := r.arr.Len()
	for i := 0; i < n; i++ {
		swaps, compared := 0, false
		for j := 0; j < n-i-1; j++ {
			if err := r.checkpoint(); err != nil {
				return err
			}
			compared = true
			r.highlight(RoleCompare, true, j, j+1)
			a, b, err := r.pair(j, j+1)
			if err != nil {
				return err
			}
			r.compare(j, j+1)
			if a > b {
				if err := r.swap(j, j+1); err != nil {
					return err
				}
				swaps++
				if err := r.wait(); err != nil {
					return err
				}
			}
			r.highlight(RoleCompare, false, j, j+1)
			if err := r.wait(); err != nil {
				return err
			}
		}
		if compared {
			r.stats.PassSwaps = append(r.stats.PassSwaps, swaps)
		}
		r.settle(n - i - 1)
	}
	return nil
}

// insertionSort sinks each element with adjacent swaps, never a shift and
// insert.
func (r *Runner) insertionSort() error {
	n := r.arr.Len()
	for i := 1; i < n; i++ {
		if err := r.checkpoint(); err != nil {
			return err
		}
		for j := i; j > 0; j-- {
			a, b, err := r.pair(j, j-1)
			if err != nil {
				return err
			}
			r.compare(j-1, j)
			if a >= b {
				break
			}
			if err := r.checkpoint(); err != nil {
				return err
			}
			r.highlight(RoleCompare, true, j-1, j)
			if err := r.swap(j, j-1); err != nil {
				return err
			}
			if err := r.wait(); err != nil {
				return err
			}
			r.highlight(RoleCompare, false, j-1, j)
		}
	}
	for i := 0; i < n; i++ {
		r.settle(i)
	}
	return nil
}

func (r *Runner) mergeSort(start, end int) error {
	if err := r.checkpoint(); err != nil {
		return err
	}
	if start >= end {
		return nil
	}
	mid := (start + end) / 2
	if err := r.mergeSort(start, mid); err != nil {
		return err
	}
	if err := r.mergeSort(mid+1, end); err != nil {
		return err
	}
	return r.merge(start, mid, end)
}

func (r *Runner) scratch(from, to int) ([]int, error) {
	out := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		v, err := r.get(i)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// merge is stable: ties take from the left half.
func (r *Runner) merge(start, mid, end int) error {
	left, err := r.scratch(start, mid)
	if err != nil {
		return err
	}
	right, err := r.scratch(mid+1, end)
	if err != nil {
		return err
	}

	i, j, k := 0, 0, start
	for i < len(left) && j < len(right) {
		if err := r.checkpoint(); err != nil {
			return err
		}
		r.highlight(RoleCompare, true, k)
		r.compare(k)
		v := right[j]
		if left[i] <= right[j] {
			v = left[i]
			i++
		} else {
			j++
		}
		if err := r.write(k, v); err != nil {
			return err
		}
		r.highlight(RoleCompare, false, k)
		if err := r.wait(); err != nil {
			return err
		}
		k++
	}
	for _, rest := range [][]int{left[i:], right[j:]} {
		for _, v := range rest {
			if err := r.checkpoint(); err != nil {
				return err
			}
			if err := r.write(k, v); err != nil {
				return err
			}
			if err := r.wait(); err != nil {
				return err
			}
			k++
		}
	}

	for idx := start; idx <= end; idx++ {
		r.settle(idx)
	}
	return nil
}

func (r *Runner) quickSort(start, end int) error {
	if err := r.checkpoint(); err != nil {
		return err
	}
	if start >= end {
		return nil
	}
	p, err := r.partition(start, end)
	if err != nil {
		return err
	}
	if err := r.quickSort(start, p-1); err != nil {
		return err
	}
	return r.quickSort(p+1, end)
}

// partition is Lomuto's scheme with the last element as pivot.
func (r *Runner) partition(start, end int) (int, error) {
	pivot, err := r.get(end)
	if err != nil {
		return start, err
	}
	i := start
	r.highlight(RolePivot, true, end)

	for j := start; j < end; j++ {
		if err := r.checkpoint(); err != nil {
			return i, err
		}
		r.highlight(RoleCompare, true, j, end)
		v, err := r.get(j)
		if err != nil {
			return i, err
		}
		r.compare(j, end)
		if v < pivot {
			if i != j {
				if err := r.swap(i, j); err != nil {
					return i, err
				}
			}
			i++
		}
		if err := r.wait(); err != nil {
			return i, err
		}
		r.highlight(RoleCompare, false, j, end)
	}

	if i != end {
		if err := r.swap(i, end); err != nil {
			return i, err
		}
	}
	r.highlight(RolePivot, false, end)
	r.settle(i)
	return i, nil
}
