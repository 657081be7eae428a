package lzw

// emptyKey marks an unused slot in the encoder's hash table. Valid keys are
// at most 23 bits (a 15-bit prefix code shifted left 8, or'd with an 8-bit
// byte), so they never collide with this sentinel.
const emptyKey = 0xFFFFFFFF

// dict is the encoder's hash-table-backed dictionary described in
// SPEC_FULL.md §9 "Dictionary representation": a single array of u32 keys
// and a parallel array of u16 codes, open-addressed with linear probing,
// fixed at a 0.5 load factor. It is grounded directly on the key/hash
// scheme in original_source/lzw10pack.cpp's KeyItem/InsertHashTable/
// ExistHashTable, rewritten as the strict-ownership array pair the source's
// own comments recommend in place of its STL unordered_map build option.
type dict struct {
	maxBits uint
	keyMask uint32
	keys    []uint32
	vals    []uint16
}

func newDict(maxBits uint) *dict {
	d := &dict{maxBits: maxBits}
	size := uint32(1) << (maxBits + 1)
	d.keyMask = size - 1
	d.keys = make([]uint32, size)
	d.vals = make([]uint16, size)
	d.clear()
	return d
}

func (d *dict) clear() {
	for i := range d.keys {
		d.keys[i] = emptyKey
	}
}

func (d *dict) hash(key uint32) uint32 {
	return ((key >> d.maxBits) ^ key) & d.keyMask
}

// lookup returns the code assigned to key and true, or (0, false) if key has
// no entry.
func (d *dict) lookup(key uint32) (uint16, bool) {
	h := d.hash(key)
	for d.keys[h] != emptyKey {
		if d.keys[h] == key {
			return d.vals[h], true
		}
		h = (h + 1) & d.keyMask
	}
	return 0, false
}

// insert assigns code to key. The caller must ensure key is not already
// present.
func (d *dict) insert(key uint32, code uint16) {
	h := d.hash(key)
	for d.keys[h] != emptyKey {
		h = (h + 1) & d.keyMask
	}
	d.keys[h] = key
	d.vals[h] = code
}
