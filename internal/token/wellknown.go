package token

// Well-known token IDs used by the local simulation mode and tests.
var (
	GALAID  = IDFromHex("0x0000000000000000000000000000000000000001")
	GUSDCID = IDFromHex("0x0000000000000000000000000000000000000002")
	GWETHID = IDFromHex("0x0000000000000000000000000000000000000003")
	GWBTCID = IDFromHex("0x0000000000000000000000000000000000000004")
	GUSDTID = IDFromHex("0x0000000000000000000000000000000000000005")
)

// DefaultRegistry returns a registry pre-populated with the well-known
// gSwap tokens.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewWithName(GALAID, "GALA", "Gala", 8))
	r.Register(NewWithName(GUSDCID, "GUSDC", "Wrapped USDC", 6))
	r.Register(NewWithName(GWETHID, "GWETH", "Wrapped Ether", 18))
	r.Register(NewWithName(GWBTCID, "GWBTC", "Wrapped Bitcoin", 8))
	r.Register(NewWithName(GUSDTID, "GUSDT", "Wrapped USDT", 6))
	return r
}
