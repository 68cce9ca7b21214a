package subheader

// Terminal marks the end of a page's subheader directory. It carries no
// body: Size is always 0 and CompressionCode is Truncated.
type Terminal struct{}

func (t *Terminal) Size() int { return 0 }

func (t *Terminal) TypeCode() TypeCode { return TypeA }

func (t *Terminal) CompressionCode() CompressionCode { return Truncated }

func (t *Terminal) WriteSubheader(buf []byte, offset int) error { return nil }
