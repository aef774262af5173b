package verify

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"math/big"

	"github.com/ocmf-tools/ocmf-go/pkg/ocmf"
	"github.com/ocmf-tools/ocmf-go/pkg/pubkey"
)

// DefaultProvider verifies ECDSA signatures on all nine supported curves.
// The three NIST curves with standard library support go through
// crypto/ecdsa; the Koblitz and Brainpool curves use explicit
// short-Weierstrass parameters because elliptic.CurveParams assumes a = -3.
type DefaultProvider struct{}

var _ Provider = DefaultProvider{}

// Available reports whether curve is in the verification table.
func (DefaultProvider) Available(curve pubkey.Curve) bool {
	_, ok := curves[curve]
	return ok
}

// VerifyDigest checks the signature (r, s) over digest against the public
// point (x, y). Verification operates on public data only; the explicit
// arithmetic is not constant time.
func (DefaultProvider) VerifyDigest(curve pubkey.Curve, x, y *big.Int, digest []byte, r, s *big.Int) (bool, error) {
	spec, ok := curves[curve]
	if !ok {
		return false, ocmf.Errorf(ocmf.KindCrypto, "no verification backend for curve %s", curve)
	}
	if x == nil || y == nil || r == nil || s == nil {
		return false, nil
	}
	if spec.std != nil {
		key := &ecdsa.PublicKey{Curve: spec.std, X: x, Y: y}
		return ecdsa.Verify(key, digest, r, s), nil
	}
	return spec.verify(x, y, digest, r, s), nil
}

// curveSpec holds the short-Weierstrass parameters y² = x³ + ax + b over
// GF(p) with base point (gx, gy) of order n. Entries with std set delegate
// to the standard library instead.
type curveSpec struct {
	p, a, b *big.Int
	gx, gy  *big.Int
	n       *big.Int
	std     elliptic.Curve
}

var curves = map[pubkey.Curve]*curveSpec{
	pubkey.CurveSecp192k1: {
		p:  mustHexBigInt("fffffffffffffffffffffffffffffffffffffffeffffee37"),
		a:  big.NewInt(0),
		b:  big.NewInt(3),
		gx: mustHexBigInt("db4ff10ec057e9ae26b07d0280b7f4341da5d1b1eae06c7d"),
		gy: mustHexBigInt("9b2f2f6d9c5628a7844163d015be86344082aa88d95e2f9d"),
		n:  mustHexBigInt("fffffffffffffffffffffffe26f2fc170f69466a74defd8d"),
	},
	pubkey.CurveSecp256k1: {
		p:  mustHexBigInt("fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f"),
		a:  big.NewInt(0),
		b:  big.NewInt(7),
		gx: mustHexBigInt("79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"),
		gy: mustHexBigInt("483ada7726a3c4655da4fbfc0e1108a8fd17b448a68554199c47d08ffb10d4b8"),
		n:  mustHexBigInt("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141"),
	},
	pubkey.CurveSecp192r1: {
		p:  mustHexBigInt("fffffffffffffffffffffffffffffffeffffffffffffffff"),
		a:  mustHexBigInt("fffffffffffffffffffffffffffffffefffffffffffffffc"),
		b:  mustHexBigInt("64210519e59c80e70fa7e9ab72243049feb8deecc146b9b1"),
		gx: mustHexBigInt("188da80eb03090f67cbf20eb43a18800f4ff0afd82ff1012"),
		gy: mustHexBigInt("07192b95ffc8da78631011ed6b24cdd573f977a11e794811"),
		n:  mustHexBigInt("ffffffffffffffffffffffff99def836146bc9b1b4d22831"),
	},
	pubkey.CurveSecp256r1: {std: elliptic.P256()},
	pubkey.CurveSecp384r1: {std: elliptic.P384()},
	pubkey.CurveSecp521r1: {std: elliptic.P521()},
	pubkey.CurveBrainpoolP256r1: {
		p:  mustHexBigInt("a9fb57dba1eea9bc3e660a909d838d726e3bf623d52620282013481d1f6e5377"),
		a:  mustHexBigInt("7d5a0975fc2c3057eef67530417affe7fb8055c126dc5c6ce94a4b44f330b5d9"),
		b:  mustHexBigInt("26dc5c6ce94a4b44f330b5d9bbd77cbf958416295cf7e1ce6bccdc18ff8c07b6"),
		gx: mustHexBigInt("8bd2aeb9cb7e57cb2c4b482ffc81b7afb9de27e1e3bd23c23a4453bd9ace3262"),
		gy: mustHexBigInt("547ef835c3dac4fd97f8461a14611dc9c27745132ded8e545c1d54c72f046997"),
		n:  mustHexBigInt("a9fb57dba1eea9bc3e660a909d838d718c397aa3b561a6f7901e0e82974856a7"),
	},
	pubkey.CurveBrainpoolP384r1: {
		p:  mustHexBigInt("8cb91e82a3386d280f5d6f7e50e641df152f7109ed5456b412b1da197fb71123acd3a729901d1a71874700133107ec53"),
		a:  mustHexBigInt("7bc382c63d8c150c3c72080ace05afa0c2bea28e4fb22787139165efba91f90f8aa5814a503ad4eb04a8c7dd22ce2826"),
		b:  mustHexBigInt("04a8c7dd22ce28268b39b55416f0447c2fb77de107dcd2a62e880ea53eeb62d57cb4390295dbc9943ab78696fa504c11"),
		gx: mustHexBigInt("1d1c64f068cf45ffa2a63a81b7c13f6b8847a3e77ef14fe3db7fcafe0cbd10e8e826e03436d646aaef87b2e247d4af1e"),
		gy: mustHexBigInt("8abe1d7520f9c2a45cb1eb8e95cfd55262b70b29feec5864e19c054ff99129280e4646217791811142820341263c5315"),
		n:  mustHexBigInt("8cb91e82a3386d280f5d6f7e50e641df152f7109ed5456b31f166e6cac0425a7cf3ab6af6b7fc3103b883202e9046565"),
	},
}

// verify runs textbook affine ECDSA verification with the spec's own curve
// parameters.
func (spec *curveSpec) verify(x, y *big.Int, digest []byte, r, s *big.Int) bool {
	if r.Sign() <= 0 || r.Cmp(spec.n) >= 0 || s.Sign() <= 0 || s.Cmp(spec.n) >= 0 {
		return false
	}
	if !spec.onCurve(x, y) {
		return false
	}

	// w = s⁻¹ mod n
	w := new(big.Int).ModInverse(s, spec.n)
	if w == nil {
		return false
	}
	e := hashToInt(digest, spec.n)

	// u1 = e*w mod n, u2 = r*w mod n
	u1 := new(big.Int).Mul(e, w)
	u1.Mod(u1, spec.n)
	u2 := new(big.Int).Mul(r, w)
	u2.Mod(u2, spec.n)

	// R = u1*G + u2*Q
	pt := spec.add(
		spec.scalarMult(&curvePoint{x: spec.gx, y: spec.gy}, u1),
		spec.scalarMult(&curvePoint{x: x, y: y}, u2),
	)
	if pt.isInfinity() {
		return false
	}

	v := new(big.Int).Mod(pt.x, spec.n)
	return v.Cmp(r) == 0
}

// onCurve reports whether (x, y) satisfies y² = x³ + ax + b mod p with both
// coordinates in range.
func (spec *curveSpec) onCurve(x, y *big.Int) bool {
	if x.Sign() < 0 || x.Cmp(spec.p) >= 0 || y.Sign() < 0 || y.Cmp(spec.p) >= 0 {
		return false
	}
	lhs := new(big.Int).Mul(y, y)
	lhs.Mod(lhs, spec.p)

	rhs := new(big.Int).Mul(x, x)
	rhs.Mul(rhs, x)
	ax := new(big.Int).Mul(spec.a, x)
	rhs.Add(rhs, ax)
	rhs.Add(rhs, spec.b)
	rhs.Mod(rhs, spec.p)

	return lhs.Cmp(rhs) == 0
}

// curvePoint is an affine point; nil coordinates mark the point at infinity.
type curvePoint struct {
	x, y *big.Int
}

func (pt *curvePoint) isInfinity() bool {
	return pt.x == nil || pt.y == nil
}

func (spec *curveSpec) add(p1, p2 *curvePoint) *curvePoint {
	if p1.isInfinity() {
		return p2
	}
	if p2.isInfinity() {
		return p1
	}

	if p1.x.Cmp(p2.x) == 0 {
		// P + (-P) = O
		sum := new(big.Int).Add(p1.y, p2.y)
		sum.Mod(sum, spec.p)
		if sum.Sign() == 0 {
			return &curvePoint{}
		}
		return spec.double(p1)
	}

	// λ = (y2 - y1) / (x2 - x1)
	num := new(big.Int).Sub(p2.y, p1.y)
	den := new(big.Int).Sub(p2.x, p1.x)
	den.Mod(den, spec.p)
	lambda := num.Mul(num, den.ModInverse(den, spec.p))
	lambda.Mod(lambda, spec.p)

	return spec.chord(p1, p2, lambda)
}

func (spec *curveSpec) double(pt *curvePoint) *curvePoint {
	if pt.isInfinity() || pt.y.Sign() == 0 {
		return &curvePoint{}
	}

	// λ = (3x² + a) / 2y
	num := new(big.Int).Mul(pt.x, pt.x)
	num.Mul(num, big.NewInt(3))
	num.Add(num, spec.a)
	den := new(big.Int).Lsh(pt.y, 1)
	den.Mod(den, spec.p)
	lambda := num.Mul(num, den.ModInverse(den, spec.p))
	lambda.Mod(lambda, spec.p)

	return spec.chord(pt, pt, lambda)
}

// chord drops the line of slope λ through p1 and p2 onto its third curve
// intersection, mirrored.
func (spec *curveSpec) chord(p1, p2 *curvePoint, lambda *big.Int) *curvePoint {
	// x3 = λ² - x1 - x2
	x3 := new(big.Int).Mul(lambda, lambda)
	x3.Sub(x3, p1.x)
	x3.Sub(x3, p2.x)
	x3.Mod(x3, spec.p)

	// y3 = λ(x1 - x3) - y1
	y3 := new(big.Int).Sub(p1.x, x3)
	y3.Mul(y3, lambda)
	y3.Sub(y3, p1.y)
	y3.Mod(y3, spec.p)

	return &curvePoint{x: x3, y: y3}
}

// scalarMult computes k*pt by double-and-add.
func (spec *curveSpec) scalarMult(pt *curvePoint, k *big.Int) *curvePoint {
	result := &curvePoint{}
	for i := k.BitLen() - 1; i >= 0; i-- {
		result = spec.double(result)
		if k.Bit(i) == 1 {
			result = spec.add(result, pt)
		}
	}
	return result
}

// hashToInt converts a digest to an integer per SEC 1 §4.1.4, truncating to
// the bit length of the curve order.
func hashToInt(digest []byte, n *big.Int) *big.Int {
	orderBits := n.BitLen()
	orderBytes := (orderBits + 7) / 8
	if len(digest) > orderBytes {
		digest = digest[:orderBytes]
	}
	e := new(big.Int).SetBytes(digest)
	if excess := len(digest)*8 - orderBits; excess > 0 {
		e.Rsh(e, uint(excess))
	}
	return e
}

func mustHexBigInt(s string) *big.Int {
	i, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("invalid hex string: " + s)
	}
	return i
}
