package glhf

// binder binds a GL object and restores whatever was bound before.
type binder struct {
	restoreLoc uint32
	bindFunc   func(uint32)

	obj  uint32
	prev []uint32
}

func (b *binder) bind() *binder {
	var prev int32
	getInteger(b.restoreLoc, &prev)
	b.prev = append(b.prev, uint32(prev))
	if b.prev[len(b.prev)-1] != b.obj {
		b.bindFunc(b.obj)
	}
	return b
}

func (b *binder) restore() *binder {
	if len(b.prev) == 0 {
		return b
	}
	last := b.prev[len(b.prev)-1]
	b.prev = b.prev[:len(b.prev)-1]
	if last != b.obj {
		b.bindFunc(last)
	}
	return b
}
