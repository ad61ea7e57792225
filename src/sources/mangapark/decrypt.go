package mangapark

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5"
	"encoding/base64"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/diogovalentte/mangapark-adapter/src/errordefs"
)

// Decrypter decrypts the image tokens of a chapter page.
// amWord and amPass are the JavaScript expressions of the page script, not their values.
// It returns the decrypted text, a JSON array of tokens.
type Decrypter interface {
	Decrypt(amWord, amPass string) (string, error)
}

// ScriptDecrypter runs CryptoJS.AES.decrypt(amWord, amPass) with the CryptoJS runtime, like the site's reader does
type ScriptDecrypter struct {
	Runtime   RuntimeProvider
	Evaluator ScriptEvaluator
}

func (d *ScriptDecrypter) Decrypt(amWord, amPass string) (string, error) {
	runtime, err := d.Runtime.Runtime()
	if err != nil {
		return "", fmt.Errorf("%w: %w: %w", errordefs.ErrDecryptionFailed, errordefs.ErrCryptoRuntimeUnavailable, err)
	}

	return d.Evaluator.Evaluate(DecryptProgram(runtime, amWord, amPass))
}

// DecryptProgram returns the program that decrypts the tokens using the runtime
func DecryptProgram(runtime, amWord, amPass string) string {
	return runtime + "\nCryptoJS.AES.decrypt(" + amWord + ", " + amPass + ").toString(CryptoJS.enc.Utf8);"
}

// NativeDecrypter decrypts the tokens in Go.
// The evaluator is only used to get the values of the amWord and amPass expressions.
type NativeDecrypter struct {
	Evaluator ScriptEvaluator
}

func (d *NativeDecrypter) Decrypt(amWord, amPass string) (string, error) {
	ciphertext, err := d.Evaluator.Evaluate("String(" + amWord + ")")
	if err != nil {
		return "", err
	}
	passphrase, err := d.Evaluator.Evaluate("String(" + amPass + ")")
	if err != nil {
		return "", err
	}

	plaintext, err := DecryptOpenSSL(ciphertext, passphrase)
	if err != nil {
		return "", fmt.Errorf("%w: %s", errordefs.ErrDecryptionFailed, err)
	}

	return plaintext, nil
}

const (
	opensslSaltHeader = "Salted__"
	aes256KeySize     = 32
)

// DecryptOpenSSL decrypts a base64 "Salted__" ciphertext with a passphrase,
// the format CryptoJS uses when AES.decrypt gets a passphrase string:
// AES-256-CBC with PKCS#7 padding, key and IV derived with EVP_BytesToKey (MD5, 1 iteration).
func DecryptOpenSSL(ciphertextB64, passphrase string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(ciphertextB64))
	if err != nil {
		return "", fmt.Errorf("ciphertext is not base64: %s", err)
	}
	if len(raw) < 16 || string(raw[:8]) != opensslSaltHeader {
		return "", fmt.Errorf("ciphertext has no salt header")
	}
	salt, ciphertext := raw[8:16], raw[16:]
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", fmt.Errorf("ciphertext length %d is not a multiple of the block size", len(ciphertext))
	}

	key, iv := evpBytesToKey([]byte(passphrase), salt, aes256KeySize, aes.BlockSize)
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	plaintext, err = pkcs7Unpad(plaintext)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(plaintext) {
		return "", fmt.Errorf("decrypted text is not UTF-8, wrong passphrase?")
	}

	return string(plaintext), nil
}

func evpBytesToKey(passphrase, salt []byte, keyLen, ivLen int) (key, iv []byte) {
	var derived, block []byte
	for len(derived) < keyLen+ivLen {
		h := md5.New()
		h.Write(block)
		h.Write(passphrase)
		h.Write(salt)
		block = h.Sum(nil)
		derived = append(derived, block...)
	}

	return derived[:keyLen], derived[keyLen : keyLen+ivLen]
}

func pkcs7Unpad(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty plaintext")
	}
	padding := int(data[len(data)-1])
	if padding == 0 || padding > aes.BlockSize || padding > len(data) {
		return nil, fmt.Errorf("invalid padding, wrong passphrase?")
	}
	if !bytes.Equal(data[len(data)-padding:], bytes.Repeat([]byte{byte(padding)}, padding)) {
		return nil, fmt.Errorf("invalid padding, wrong passphrase?")
	}

	return data[:len(data)-padding], nil
}
