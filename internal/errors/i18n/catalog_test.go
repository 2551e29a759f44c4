package i18n

import "testing"

func TestGetCatalogFallsBack(t *testing.T) {
	t.Parallel()

	tests := []string{"", "xx-YY", "not a locale", "en", "en-GB"}
	for _, locale := range tests {
		catalog := GetCatalog(locale)
		if catalog == nil {
			t.Fatalf("GetCatalog(%q) = nil", locale)
		}
		if catalog.Locale() != BaseLocale {
			t.Errorf("GetCatalog(%q).Locale() = %q, want %q", locale, catalog.Locale(), BaseLocale)
		}
	}
}

func TestFormatPlainMessage(t *testing.T) {
	t.Parallel()

	catalog := GetCatalog(BaseLocale)
	if got := catalog.Format(CodeCustomerEmailExists, nil); got != "Email already exists" {
		t.Errorf("Format() = %q", got)
	}
}

func TestFormatWithMetadata(t *testing.T) {
	t.Parallel()

	catalog := GetCatalog(BaseLocale)
	got := catalog.Format(CodeOrderProductsInvalid, map[string]string{"ids": "999, 1000"})
	if got != "Invalid product IDs: 999, 1000" {
		t.Errorf("Format() = %q", got)
	}
}

func TestFormatUnknownCode(t *testing.T) {
	t.Parallel()

	catalog := GetCatalog(BaseLocale)
	if got := catalog.Format("NO_SUCH_CODE", nil); got != "NO_SUCH_CODE" {
		t.Errorf("Format() = %q, want the code itself", got)
	}
}

func TestRegisterAdditionalLocale(t *testing.T) {
	Register("pt-BR", map[Code]string{
		CodeCustomerEmailExists: "Email ja cadastrado",
	})

	catalog := GetCatalog("pt-BR")
	if catalog.Locale() != "pt-BR" {
		t.Fatalf("GetCatalog(pt-BR).Locale() = %q", catalog.Locale())
	}
	if got := catalog.Format(CodeCustomerEmailExists, nil); got != "Email ja cadastrado" {
		t.Errorf("Format() = %q", got)
	}
}
