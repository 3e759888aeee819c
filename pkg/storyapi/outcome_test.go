package storyapi

import (
	"encoding/json"
	"errors"
	"net/url"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRender(t *testing.T) {
	Convey("Given a successful outcome", t, func() {
		outcome := success(map[string]any{
			"story": "Zoya's café — héllo ✨",
			"tags":  []any{"<noir>", "mystery"},
		})
		text := Render(outcome)

		Convey("It renders indented JSON", func() {
			So(text, ShouldContainSubstring, "\n  \"story\"")
		})

		Convey("It leaves non-ASCII and HTML characters unescaped", func() {
			So(text, ShouldContainSubstring, "héllo ✨")
			So(text, ShouldContainSubstring, "<noir>")
			So(text, ShouldNotContainSubstring, `\u`)
		})

		Convey("It round-trips", func() {
			var decoded map[string]any
			So(json.Unmarshal([]byte(text), &decoded), ShouldBeNil)
			So(decoded["story"], ShouldEqual, "Zoya's café — héllo ✨")
		})
	})

	Convey("Given each failure shape", t, func() {
		Convey("Timeout failures carry the fixed message and kind", func() {
			var decoded map[string]any
			So(json.Unmarshal([]byte(Render(timeoutFailure())), &decoded), ShouldBeNil)
			So(decoded["success"], ShouldEqual, false)
			So(decoded["error_type"], ShouldEqual, "timeout")
			So(decoded["error"], ShouldContainSubstring, "timed out")
			_, hasDetails := decoded["error_details"]
			So(hasDetails, ShouldBeFalse)
		})

		Convey("Status failures carry the code and the raw body", func() {
			var decoded map[string]any
			So(json.Unmarshal([]byte(Render(statusFailure(503, "busy"))), &decoded), ShouldBeNil)
			So(decoded["success"], ShouldEqual, false)
			So(decoded["error"], ShouldEqual, "API returned error: 503")
			So(decoded["error_details"], ShouldEqual, "busy")
			_, hasKind := decoded["error_type"]
			So(hasKind, ShouldBeFalse)
		})

		Convey("Transport failures carry the error text and type name", func() {
			var decoded map[string]any
			So(json.Unmarshal([]byte(Render(transportFailure(errors.New("boom")))), &decoded), ShouldBeNil)
			So(decoded["success"], ShouldEqual, false)
			So(decoded["error"], ShouldEqual, "Request failed: boom")
			So(decoded["error_type"], ShouldNotBeEmpty)
		})

		Convey("Recovered panics still produce a valid document", func() {
			var decoded map[string]any
			So(json.Unmarshal([]byte(Render(RecoveredFailure("what even"))), &decoded), ShouldBeNil)
			So(decoded["success"], ShouldEqual, false)
			So(decoded["error"], ShouldEqual, "Unexpected error: what even")
			So(decoded["error_type"], ShouldEqual, "panic")
		})
	})
}

func TestUpstreamDeclaredFailure(t *testing.T) {
	Convey("Given outcomes of various shapes", t, func() {
		Convey("A success=false body is declared", func() {
			_, declared := success(map[string]any{"success": false, "error": "nope"}).UpstreamDeclaredFailure()
			So(declared, ShouldBeTrue)
		})

		Convey("A success=true body is not", func() {
			_, declared := success(map[string]any{"success": true}).UpstreamDeclaredFailure()
			So(declared, ShouldBeFalse)
		})

		Convey("A body without the marker is not", func() {
			_, declared := success(map[string]any{"story": "..."}).UpstreamDeclaredFailure()
			So(declared, ShouldBeFalse)

			_, declared = success([]any{"not", "a", "mapping"}).UpstreamDeclaredFailure()
			So(declared, ShouldBeFalse)
		})
	})
}

func TestErrorKind(t *testing.T) {
	Convey("Given wrapped and plain errors", t, func() {
		Convey("Plain errors report their concrete type", func() {
			So(errorKind(errors.New("x")), ShouldEqual, "errorString")
		})

		Convey("A url.Error reports the inner type, not the wrapper", func() {
			wrapped := &url.Error{Op: "Post", URL: "http://127.0.0.1:1", Err: errors.New("connection refused")}
			So(errorKind(wrapped), ShouldEqual, "errorString")
		})

		Convey("Nil-safe", func() {
			So(errorKind(nil), ShouldEqual, "error")
		})
	})
}
