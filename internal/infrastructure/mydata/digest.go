package mydata

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/xml"
	"fmt"

	"github.com/beevik/etree"
	"github.com/ucarion/c14n"
)

// PayloadDigest SHA-256 (hex) del InvoicesDoc canonicalizado (C14N 1.0).
// Es estable frente al orden de atributos y al estilo de comillas.
func PayloadDigest(xmlBytes []byte) (string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(xmlBytes); err != nil {
		return "", fmt.Errorf("mydata: parsear XML para digest: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return "", fmt.Errorf("mydata: documento sin raíz")
	}
	// Solo el elemento raíz: la declaración XML no forma parte de la forma canónica.
	rootDoc := etree.NewDocument()
	rootDoc.SetRoot(root.Copy())
	raw, err := rootDoc.WriteToBytes()
	if err != nil {
		return "", fmt.Errorf("mydata: serializar raíz: %w", err)
	}

	canonical, err := canonicalizeXML(raw)
	if err != nil {
		return "", fmt.Errorf("mydata: canonicalizar: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

func canonicalizeXML(data []byte) ([]byte, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	return c14n.Canonicalize(dec)
}
