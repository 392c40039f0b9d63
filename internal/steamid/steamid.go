// Package steamid handles steam ids. The logs.tf API uses steamID64 for
// lookups but has steamID3s inside the log documents, so safe conversion
// between the textual forms and the packed 64-bit value is critical.
package steamid

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	accountInstanceOffset = 32
	accountTypeOffset     = 52
	universeOffset        = 56

	// Account instance sits at accountInstanceOffset and is 20 bits wide.
	accountInstanceMask = 0xfffff << accountInstanceOffset
)

// Universe a steam account belongs to, stored in the top byte of a steamID64.
type Universe uint8

const (
	UniverseUnspecified Universe = 0
	UniversePublic      Universe = 1
	UniverseBeta        Universe = 2
	UniverseInternal    Universe = 3
	UniverseDev         Universe = 4
	UniverseRC          Universe = 5
)

// AccountType of a steam account, stored in the nibble below the universe.
type AccountType uint8

const (
	AccountInvalid        AccountType = 0
	AccountIndividual     AccountType = 1
	AccountMultiseat      AccountType = 2
	AccountGameServer     AccountType = 3
	AccountAnonGameServer AccountType = 4
	AccountPending        AccountType = 5
	AccountContentServer  AccountType = 6
	AccountClan           AccountType = 7
	AccountChat           AccountType = 8
	// 9 (P2P SuperSeeder) is unused.
	AccountAnonUser AccountType = 10
)

// ParseError reports a steam id that could not be decoded or parsed.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed steam id %q", e.Input)
}

// SteamID is an immutable packed 64-bit steam identity.
type SteamID struct {
	id64 uint64
}

// FromID64 builds a SteamID from its steamID64 representation, checking that
// the universe and account type are known and that the account instance marks
// an individual user account. It does not check that a profile actually
// exists behind the id.
func FromID64(id64 uint64) (SteamID, error) {
	_, uniOK := universeOf(id64)
	_, typeOK := accountTypeOf(id64)
	if !uniOK || !typeOK || id64&accountInstanceMask != 1<<accountInstanceOffset {
		return SteamID{}, &ParseError{Input: strconv.FormatUint(id64, 10)}
	}
	return SteamID{id64: id64}, nil
}

// FromParts assembles a SteamID from its fields. The account instance is
// always set to an individual user account.
func FromParts(universe Universe, accountType AccountType, accountID uint32) SteamID {
	var id64 uint64
	id64 |= uint64(accountID)
	id64 |= 1 << accountInstanceOffset
	id64 |= uint64(accountType) << accountTypeOffset
	id64 |= uint64(universe) << universeOffset
	return SteamID{id64: id64}
}

// Parse accepts the three textual steam id forms: plain steamID64 digits,
// steamID3 ("[U:1:46143802]") and the legacy steamID ("STEAM_1:0:23071901").
// The steamID3 form carries no universe and is assumed Public; the legacy
// form spells its universe out.
func Parse(s string) (SteamID, error) {
	if id64, err := strconv.ParseUint(s, 10, 64); err == nil {
		return FromID64(id64)
	}
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		return parseID3(s)
	}
	if strings.HasPrefix(s, "STEAM_") {
		return parseID1(s)
	}
	return SteamID{}, &ParseError{Input: s}
}

func parseID3(s string) (SteamID, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 || len(parts[0]) != 2 || len(parts[1]) != 1 {
		return SteamID{}, &ParseError{Input: s}
	}

	accountType, ok := accountTypeForChar(rune(parts[0][1]))
	if !ok {
		return SteamID{}, &ParseError{Input: s}
	}

	lowBit, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil || lowBit > 1 {
		return SteamID{}, &ParseError{Input: s}
	}
	upperBits, err := strconv.ParseUint(strings.TrimSuffix(parts[2], "]"), 10, 32)
	if err != nil || upperBits > 1<<31-1 {
		return SteamID{}, &ParseError{Input: s}
	}

	accountID := uint32(upperBits)<<1 | uint32(lowBit)
	return FromParts(UniversePublic, accountType, accountID), nil
}

func parseID1(s string) (SteamID, error) {
	parts := strings.Split(strings.TrimPrefix(s, "STEAM_"), ":")
	if len(parts) != 3 {
		return SteamID{}, &ParseError{Input: s}
	}

	universeNum, err := strconv.ParseUint(parts[0], 10, 8)
	if err != nil || universeNum > uint64(UniverseRC) {
		return SteamID{}, &ParseError{Input: s}
	}
	lowBit, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil || lowBit > 1 {
		return SteamID{}, &ParseError{Input: s}
	}
	upperBits, err := strconv.ParseUint(parts[2], 10, 32)
	if err != nil || upperBits > 1<<31-1 {
		return SteamID{}, &ParseError{Input: s}
	}

	accountID := uint32(upperBits)<<1 | uint32(lowBit)
	return FromParts(Universe(universeNum), AccountIndividual, accountID), nil
}

// ID64 returns the packed 64-bit value.
func (id SteamID) ID64() uint64 { return id.id64 }

// AccountID returns the low 32 account number bits.
func (id SteamID) AccountID() uint32 { return uint32(id.id64) }

// Universe of the account.
func (id SteamID) Universe() Universe {
	u, _ := universeOf(id.id64)
	return u
}

// AccountType of the account.
func (id SteamID) AccountType() AccountType {
	t, _ := accountTypeOf(id.id64)
	return t
}

// ID64String renders the id as plain steamID64 digits, the form the archive's
// search endpoint expects.
func (id SteamID) ID64String() string {
	return strconv.FormatUint(id.id64, 10)
}

// ID3String renders the id in steamID3 form, e.g. "[U:1:46143802]".
func (id SteamID) ID3String() string {
	var b strings.Builder
	b.WriteByte('[')
	b.WriteRune(id.AccountType().Char())
	b.WriteByte(':')
	accountID := id.AccountID()
	b.WriteString(strconv.FormatUint(uint64(accountID&1), 10))
	b.WriteByte(':')
	b.WriteString(strconv.FormatUint(uint64(accountID>>1), 10))
	b.WriteByte(']')
	return b.String()
}

// ID1String renders the id in the legacy form, e.g. "STEAM_1:0:23071901".
func (id SteamID) ID1String() string {
	var b strings.Builder
	b.WriteString("STEAM_")
	b.WriteString(strconv.FormatUint(uint64(id.Universe()), 10))
	b.WriteByte(':')
	accountID := id.AccountID()
	b.WriteString(strconv.FormatUint(uint64(accountID&1), 10))
	b.WriteByte(':')
	b.WriteString(strconv.FormatUint(uint64(accountID>>1), 10))
	return b.String()
}

func universeOf(id64 uint64) (Universe, bool) {
	u := Universe(id64 >> universeOffset)
	return u, u <= UniverseRC
}

func accountTypeOf(id64 uint64) (AccountType, bool) {
	t := AccountType(id64 >> accountTypeOffset & 0xf)
	return t, t <= AccountChat || t == AccountAnonUser
}

// Char returns the steamID3 type character for the account type.
func (t AccountType) Char() rune {
	switch t {
	case AccountInvalid:
		return 'I'
	case AccountIndividual:
		return 'U'
	case AccountMultiseat:
		return 'M'
	case AccountGameServer:
		return 'G'
	case AccountAnonGameServer:
		return 'A'
	case AccountPending:
		return 'P'
	case AccountContentServer:
		return 'C'
	case AccountClan:
		return 'g'
	case AccountChat:
		return 'c'
	case AccountAnonUser:
		return 'a'
	default:
		return 'I'
	}
}

func accountTypeForChar(c rune) (AccountType, bool) {
	switch c {
	case 'I':
		return AccountInvalid, true
	case 'U':
		return AccountIndividual, true
	case 'M':
		return AccountMultiseat, true
	case 'G':
		return AccountGameServer, true
	case 'A':
		return AccountAnonGameServer, true
	case 'P':
		return AccountPending, true
	case 'C':
		return AccountContentServer, true
	case 'g':
		return AccountClan, true
	case 'T', 'L', 'c':
		return AccountChat, true
	case 'a':
		return AccountAnonUser, true
	default:
		return AccountInvalid, false
	}
}
