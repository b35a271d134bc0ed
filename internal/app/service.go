// Package app commits a fleet layout and answers shots with zero-knowledge proofs against
// that commitment, so the side that fires can check the answers it gets.
package app

import (
	"errors"
	"fmt"
	"math/big"
	"math/rand"
	"strings"

	"github.com/rs/zerolog"

	"batnav/internal/codec"
	"batnav/internal/game"
	"batnav/internal/merkle"
	"batnav/internal/zk"
)

type CommitResult struct {
	RootHex string
	Secret  codec.Secret
}

// InitLayout draws a random legal layout for the given grid size.
func InitLayout(size int, rng *rand.Rand) (codec.Layout, error) {
	if size < game.MinSize || size > game.MaxSize {
		return codec.Layout{}, fmt.Errorf("size %d outside [%d, %d]", size, game.MinSize, game.MaxSize)
	}
	b, fleet, err := game.RandomFleet(size, rng)
	if err != nil {
		return codec.Layout{}, err
	}
	return codec.LayoutOf(b, fleet), nil
}

func Commit(l codec.Layout) (*CommitResult, error) {
	b, _, err := l.Build()
	if err != nil {
		return nil, err
	}
	t, err := merkle.BuildFixedTree(b.Flatten(), zk.Leaves)
	if err != nil {
		return nil, err
	}
	// this is to make root unique for same layouts
	salt, err := merkle.RandomSalt()
	if err != nil {
		return nil, err
	}
	sec := codec.Secret{
		Layout:  l,
		Tree:    t,
		SaltHex: fmt.Sprintf("0x%x", salt),
	}
	root := merkle.SaltedRoot(salt, t.Root())
	return &CommitResult{RootHex: fmt.Sprintf("0x%x", root), Secret: sec}, nil
}

// ParseHex reads a 0x-prefixed big integer.
func ParseHex(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if len(s) < 3 || (s[:2] != "0x" && s[:2] != "0X") {
		return nil, fmt.Errorf("invalid hex %q", s)
	}
	n, ok := new(big.Int).SetString(s[2:], 16)
	if !ok {
		return nil, fmt.Errorf("invalid hex %q", s)
	}
	return n, nil
}

func saltOf(sec codec.Secret) (*big.Int, error) {
	if sec.SaltHex == "" {
		return nil, errors.New("missing salt in secret")
	}
	return ParseHex(sec.SaltHex)
}

// SaltedRoot recomputes the public commitment of a secret.
func SaltedRoot(sec codec.Secret) (*big.Int, error) {
	if sec.Tree == nil {
		return nil, errors.New("secret has no tree")
	}
	salt, err := saltOf(sec)
	if err != nil {
		return nil, err
	}
	return merkle.SaltedRoot(salt, sec.Tree.Root()), nil
}

type ShootResult struct {
	Payload codec.ShotProofPayload
	Bit     uint8
}

// Shoot answers a shot at c with a proof of the committed cell value.
func Shoot(p *zk.Prover, sec codec.Secret, c game.Coord) (*ShootResult, error) {
	size := sec.Layout.Size
	if c.Row < 0 || c.Row >= size || c.Col < 0 || c.Col >= size {
		return nil, game.ErrOutOfBounds
	}
	salt, err := saltOf(sec)
	if err != nil {
		return nil, err
	}
	root, err := SaltedRoot(sec)
	if err != nil {
		return nil, err
	}
	b, _, err := sec.Layout.Build()
	if err != nil {
		return nil, err
	}
	idx := c.Row*size + c.Col
	var bit uint8
	if b.IsShip(c) {
		bit = 1
	}
	path, dir, err := sec.Tree.Path(idx)
	if err != nil {
		return nil, err
	}
	proof, pub, err := p.Prove(zk.ShotWitness{Bit: bit, Index: idx, Path: path, Dir: dir, Salt: salt, Root: root})
	if err != nil {
		return nil, err
	}
	return &ShootResult{
		Payload: codec.ShotProofPayload{Proof: proof, Public: pub},
		Bit:     bit,
	}, nil
}

type VerifyResult struct {
	Valid bool
	Hit   uint8
}

// VerifyWithRoot checks a payload against a published root using the verifying key at vkPath.
func VerifyWithRoot(vkPath string, root *big.Int, payload codec.ShotProofPayload) (*VerifyResult, error) {
	if payload.Public.Root == nil || payload.Public.Root.Sign() == 0 {
		payload.Public.Root = new(big.Int).Set(root)
	}
	res, err := zk.VerifyShot(vkPath, payload.Proof, payload.Public, root)
	if err != nil {
		return nil, err
	}
	return &VerifyResult{Valid: res, Hit: payload.Public.Hit}, nil
}

// ErrDishonestAnswer means a reported shot outcome disagrees with the committed layout.
var ErrDishonestAnswer = errors.New("shot answer does not match the committed fleet")

// Auditor commits a fleet at match start and proves, then verifies, every answer given
// for that fleet.
type Auditor struct {
	prover  *zk.Prover
	sec     codec.Secret
	root    *big.Int
	rootHex string
	log     zerolog.Logger

	Proofs int
}

func NewAuditor(p *zk.Prover, b *game.Board, fleet game.Fleet, log zerolog.Logger) (*Auditor, error) {
	res, err := Commit(codec.LayoutOf(b, fleet))
	if err != nil {
		return nil, err
	}
	root, err := SaltedRoot(res.Secret)
	if err != nil {
		return nil, err
	}
	log.Info().Str("root", res.RootHex).Int("size", b.Size).Msg("fleet committed")
	return &Auditor{prover: p, sec: res.Secret, root: root, rootHex: res.RootHex, log: log}, nil
}

func (a *Auditor) Commitment() string { return a.rootHex }

// Attest proves the committed value of c and checks it against the reported outcome.
func (a *Auditor) Attest(c game.Coord, hit bool) error {
	res, err := Shoot(a.prover, a.sec, c)
	if err != nil {
		return err
	}
	ok, err := a.prover.Verify(res.Payload.Proof, res.Payload.Public, a.root)
	if err != nil {
		return fmt.Errorf("verify shot proof: %w", err)
	}
	if !ok || (res.Payload.Public.Hit == 1) != hit {
		return fmt.Errorf("%w at %v", ErrDishonestAnswer, c)
	}
	a.Proofs++
	a.log.Debug().Int("row", c.Row).Int("col", c.Col).Bool("hit", hit).Msg("shot proof verified")
	return nil
}
