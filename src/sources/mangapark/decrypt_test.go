package mangapark

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/diogovalentte/mangapark-adapter/src/errordefs"
)

// generated with: openssl enc -aes-256-cbc -md md5 -S 0102030405060708 -pass pass:pass-key
const (
	opensslCiphertext = "U2FsdGVkX18BAgMEBQYHCI6xUX3g34iWIu3bMDrX/AY="
	opensslPassphrase = "pass-key"
	opensslPlaintext  = `["tok0","tok1"]`
)

// longer vector, generated the same way with -S 1112131415161718 -pass pass:mpk-2024
const (
	opensslLongCiphertext = "U2FsdGVkX18REhMUFRYXGC+CVAOp1vC0CdBo8RniAvXxkXluyo0a6sQ8yqK2K+MYoyum0nLW1hz3AN7yRFnpzw=="
	opensslLongPlaintext  = `["a1b2c3d4e5f6","g7h8i9j0k1l2","m3n4o5p6q7r8"]`
)

// cryptoJSRuntime reads the AES runtime with the CryptoJS API from testdata
func cryptoJSRuntime(t *testing.T) StaticRuntime {
	t.Helper()

	runtime, err := os.ReadFile("testdata/cryptojs-aes.js")
	if err != nil {
		t.Fatalf("error reading the CryptoJS runtime: %s", err)
	}

	return StaticRuntime(runtime)
}

// fakeCryptoJS mimics the part of the CryptoJS API used by the decrypt program.
// Its "decryption" reverses the ciphertext.
const fakeCryptoJS = `var CryptoJS = {
  enc: { Utf8: "utf8" },
  AES: {
    decrypt: function (word, pass) {
      if (pass !== "secret") { throw new Error("Malformed UTF-8 data"); }
      return { toString: function (encoding) { return word.split("").reverse().join(""); } };
    }
  }
};`

func TestDecryptOpenSSL(t *testing.T) {
	t.Run("Should decrypt an OpenSSL salted ciphertext", func(t *testing.T) {
		plaintext, err := DecryptOpenSSL(opensslCiphertext, opensslPassphrase)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if plaintext != opensslPlaintext {
			t.Fatalf("expected %s, got %s", opensslPlaintext, plaintext)
		}
	})
	t.Run("Should not decrypt with a wrong passphrase or ciphertext", func(t *testing.T) {
		tests := []struct{ ciphertext, passphrase string }{
			{opensslCiphertext, "wrong"},
			{"not base64!", opensslPassphrase},
			{"aGVsbG8gd29ybGQgaGVsbG8gd29ybGQ=", opensslPassphrase},
			{"U2FsdGVkX18BAgMEBQYHCA==", opensslPassphrase},
		}
		for _, test := range tests {
			if _, err := DecryptOpenSSL(test.ciphertext, test.passphrase); err == nil {
				t.Fatalf("ciphertext '%s' passphrase '%s': expected error, got nil", test.ciphertext, test.passphrase)
			}
		}
	})
}

func TestNativeDecrypter(t *testing.T) {
	decrypter := &NativeDecrypter{Evaluator: NewGojaEvaluator(5 * time.Second)}

	t.Run("Should evaluate the expressions and decrypt", func(t *testing.T) {
		plaintext, err := decrypter.Decrypt(`"U2FsdGVkX18BAgMEBQYH" + "CI6xUX3g34iWIu3bMDrX/AY="`, `["pass", "key"].join("-")`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if plaintext != opensslPlaintext {
			t.Fatalf("expected %s, got %s", opensslPlaintext, plaintext)
		}
	})
	t.Run("Should fail with a wrong passphrase", func(t *testing.T) {
		_, err := decrypter.Decrypt(`"`+opensslCiphertext+`"`, `"nope"`)
		if !errors.Is(err, errordefs.ErrDecryptionFailed) {
			t.Fatalf("expected ErrDecryptionFailed, got %v", err)
		}
	})
	t.Run("Should fail with an invalid expression", func(t *testing.T) {
		_, err := decrypter.Decrypt(`undefinedVariable`, `"pass-key"`)
		if !errors.Is(err, errordefs.ErrScriptEvaluation) {
			t.Fatalf("expected ErrScriptEvaluation, got %v", err)
		}
	})
}

type failingRuntime struct{}

func (failingRuntime) Runtime() (string, error) {
	return "", errors.New("connection refused")
}

func TestScriptDecrypter(t *testing.T) {
	t.Run("Should run the decrypt program with the runtime", func(t *testing.T) {
		decrypter := &ScriptDecrypter{Runtime: StaticRuntime(fakeCryptoJS), Evaluator: NewGojaEvaluator(5 * time.Second)}
		plaintext, err := decrypter.Decrypt(`"]\"1t\",\"0t\"["`, `"sec" + "ret"`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if plaintext != `["t0","t1"]` {
			t.Fatalf(`expected ["t0","t1"], got %s`, plaintext)
		}
	})
	t.Run("Should return the script errors", func(t *testing.T) {
		decrypter := &ScriptDecrypter{Runtime: StaticRuntime(fakeCryptoJS), Evaluator: NewGojaEvaluator(5 * time.Second)}
		_, err := decrypter.Decrypt(`"x"`, `"wrong"`)
		if !errors.Is(err, errordefs.ErrScriptEvaluation) {
			t.Fatalf("expected ErrScriptEvaluation, got %v", err)
		}
	})
	t.Run("Should fail to decrypt when the runtime is unavailable", func(t *testing.T) {
		decrypter := &ScriptDecrypter{Runtime: failingRuntime{}, Evaluator: NewGojaEvaluator(5 * time.Second)}
		_, err := decrypter.Decrypt(`"x"`, `"secret"`)
		if !errors.Is(err, errordefs.ErrDecryptionFailed) || !errors.Is(err, errordefs.ErrCryptoRuntimeUnavailable) {
			t.Fatalf("expected ErrDecryptionFailed, got %v", err)
		}
	})
	t.Run("Should resolve a chapter page end to end", func(t *testing.T) {
		html := `<script>
const imgCdnHost = "https://xfs-002.example.com";
const imgPathLis = ["/p/0.webp","/p/1.webp"];
const amPass = "secret";
const amWord = "]\"b\",\"a\"[";
</script>`
		decrypter := &ScriptDecrypter{Runtime: StaticRuntime(fakeCryptoJS), Evaluator: NewGojaEvaluator(5 * time.Second)}
		pages, err := ResolveImages(html, decrypter)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(pages) != 2 || pages[0].ImageURL != "https://xfs-002.example.com/p/0.webp?a" || pages[1].ImageURL != "https://xfs-002.example.com/p/1.webp?b" {
			t.Fatalf("unexpected pages: %v", pages)
		}
	})
}

func TestDecryptersWithCryptoJSRuntime(t *testing.T) {
	evaluator := NewGojaEvaluator(10 * time.Second)
	decrypters := map[string]Decrypter{
		"script": &ScriptDecrypter{Runtime: cryptoJSRuntime(t), Evaluator: evaluator},
		"native": &NativeDecrypter{Evaluator: evaluator},
	}
	tests := []struct {
		amWord, amPass, expected string
	}{
		{`"` + opensslCiphertext + `"`, `"pass-key"`, opensslPlaintext},
		{`"` + opensslLongCiphertext + `"`, `"mpk-" + 2024`, opensslLongPlaintext},
	}

	t.Run("Should decrypt the OpenSSL ciphertexts the same way", func(t *testing.T) {
		for name, decrypter := range decrypters {
			for _, test := range tests {
				plaintext, err := decrypter.Decrypt(test.amWord, test.amPass)
				if err != nil {
					t.Fatalf("%s decrypter: unexpected error: %v", name, err)
				}
				if plaintext != test.expected {
					t.Fatalf("%s decrypter: expected %s, got %s", name, test.expected, plaintext)
				}
			}
		}
	})
	t.Run("Should resolve a chapter page with encrypted tokens", func(t *testing.T) {
		html := `<html><body><script>
const imgCdnHost = "https://xfs-003.example.com";
const imgPathLis = ["/m/1.jpg","/m/2.jpg"];
const amPass = "pass" + "-key";
const amWord = "` + opensslCiphertext + `";
</script></body></html>`
		expected := []string{"https://xfs-003.example.com/m/1.jpg?tok0", "https://xfs-003.example.com/m/2.jpg?tok1"}

		for name, decrypter := range decrypters {
			pages, err := ResolveImages(html, decrypter)
			if err != nil {
				t.Fatalf("%s decrypter: unexpected error: %v", name, err)
			}
			if len(pages) != len(expected) {
				t.Fatalf("%s decrypter: expected %d pages, got %v", name, len(expected), pages)
			}
			for i, page := range pages {
				if page.Index != i || page.ImageURL != expected[i] {
					t.Fatalf("%s decrypter: unexpected page %d: %v", name, i, page)
				}
			}
		}
	})
	t.Run("Should not resolve pages with a wrong passphrase", func(t *testing.T) {
		html := `<script>
const imgCdnHost = "https://xfs-003.example.com";
const imgPathLis = ["/m/1.jpg","/m/2.jpg"];
const amPass = "wrong";
const amWord = "` + opensslCiphertext + `";
</script>`
		for name, decrypter := range decrypters {
			if _, err := ResolveImages(html, decrypter); err == nil {
				t.Fatalf("%s decrypter: expected an error", name)
			}
		}
	})
}

func TestGojaEvaluator(t *testing.T) {
	t.Run("Should return the last expression", func(t *testing.T) {
		result, err := NewGojaEvaluator(time.Second).Evaluate(`var a = 40; a + 2;`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != "42" {
			t.Fatalf("expected 42, got %s", result)
		}
	})
	t.Run("Should interrupt long programs", func(t *testing.T) {
		_, err := NewGojaEvaluator(50 * time.Millisecond).Evaluate(`while (true) {}`)
		if !errors.Is(err, errordefs.ErrScriptEvaluation) {
			t.Fatalf("expected ErrScriptEvaluation, got %v", err)
		}
	})
	t.Run("Should not have a result for undefined", func(t *testing.T) {
		if _, err := NewGojaEvaluator(time.Second).Evaluate(`var a = 1;`); !errors.Is(err, errordefs.ErrScriptEvaluation) {
			t.Fatalf("expected ErrScriptEvaluation, got %v", err)
		}
	})
}
