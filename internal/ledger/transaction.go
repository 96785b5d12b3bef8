package ledger

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
	"github.com/mr-tron/base58/base58"

	"github.com/roach88/clockstate/internal/pubkey"
)

// Message is the signed portion of a transaction.
type Message struct {
	FeePayer     pubkey.Pubkey
	Instructions []Instruction

	// Nonce makes otherwise identical messages distinct so each gets its
	// own signature.
	Nonce uuid.UUID
}

// Transaction is a message plus one signature per required signer.
type Transaction struct {
	Message    Message
	Signatures [][]byte
}

// NewTransaction builds an unsigned transaction paid for by feePayer.
func NewTransaction(feePayer pubkey.Pubkey, instructions ...Instruction) *Transaction {
	return &Transaction{
		Message: Message{
			FeePayer:     feePayer,
			Instructions: instructions,
			Nonce:        uuid.Must(uuid.NewV7()),
		},
	}
}

// RequiredSigners returns the fee payer followed by every other signer
// named by the instructions, in first-seen order without duplicates.
func (m *Message) RequiredSigners() []pubkey.Pubkey {
	signers := []pubkey.Pubkey{m.FeePayer}
	seen := map[pubkey.Pubkey]bool{m.FeePayer: true}
	for _, ix := range m.Instructions {
		for _, meta := range ix.Accounts {
			if meta.IsSigner && !seen[meta.Pubkey] {
				seen[meta.Pubkey] = true
				signers = append(signers, meta.Pubkey)
			}
		}
	}
	return signers
}

// Serialize returns the deterministic byte form that signers sign.
func (m *Message) Serialize() []byte {
	var buf bytes.Buffer
	buf.Write(m.FeePayer[:])
	buf.Write(m.Nonce[:])
	writeUint32(&buf, uint32(len(m.Instructions)))
	for _, ix := range m.Instructions {
		buf.Write(ix.ProgramID[:])
		writeUint32(&buf, uint32(len(ix.Accounts)))
		for _, meta := range ix.Accounts {
			buf.Write(meta.Pubkey[:])
			var flags byte
			if meta.IsSigner {
				flags |= 1
			}
			if meta.IsWritable {
				flags |= 2
			}
			buf.WriteByte(flags)
		}
		writeUint32(&buf, uint32(len(ix.Data)))
		buf.Write(ix.Data)
	}
	return buf.Bytes()
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

// Sign signs the message with the given keypairs. Every required signer must
// be covered; extra keypairs are ignored.
func (tx *Transaction) Sign(keypairs ...*pubkey.Keypair) error {
	byKey := make(map[pubkey.Pubkey]*pubkey.Keypair, len(keypairs))
	for _, kp := range keypairs {
		byKey[kp.Public] = kp
	}

	msg := tx.Message.Serialize()
	signers := tx.Message.RequiredSigners()
	sigs := make([][]byte, len(signers))
	for i, key := range signers {
		kp, ok := byKey[key]
		if !ok {
			return fmt.Errorf("sign transaction: %w: %s", ErrMissingRequiredSignature, key)
		}
		sigs[i] = kp.Sign(msg)
	}
	tx.Signatures = sigs
	return nil
}

// Verify checks that every required signer produced a valid signature.
func (tx *Transaction) Verify() error {
	signers := tx.Message.RequiredSigners()
	if len(tx.Signatures) != len(signers) {
		return fmt.Errorf("%w: have %d signatures, need %d", ErrSignatureVerification, len(tx.Signatures), len(signers))
	}
	msg := tx.Message.Serialize()
	for i, key := range signers {
		if !pubkey.Verify(key, msg, tx.Signatures[i]) {
			return fmt.Errorf("%w: signer %s", ErrSignatureVerification, key)
		}
	}
	return nil
}

// ID returns the base58 fee payer signature, or "" if unsigned.
func (tx *Transaction) ID() string {
	if len(tx.Signatures) == 0 {
		return ""
	}
	return base58.Encode(tx.Signatures[0])
}
