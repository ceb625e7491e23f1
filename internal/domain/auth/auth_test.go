package auth_test

import (
	"context"
	"testing"

	auth "github.com/gainline/gainline/internal/domain/auth"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRoles(t *testing.T) {
	Convey("Given the three capability levels", t, func() {
		Convey("Then admin can write and administer", func() {
			So(auth.RoleAdmin.CanWrite(), ShouldBeTrue)
			So(auth.RoleAdmin.CanAdmin(), ShouldBeTrue)
		})

		Convey("Then editor can write but not administer", func() {
			So(auth.RoleEditor.CanWrite(), ShouldBeTrue)
			So(auth.RoleEditor.CanAdmin(), ShouldBeFalse)
		})

		Convey("Then viewer can do neither", func() {
			So(auth.RoleViewer.CanWrite(), ShouldBeFalse)
			So(auth.RoleViewer.CanAdmin(), ShouldBeFalse)
		})
	})

	Convey("Given raw role strings", t, func() {
		Convey("Then known roles parse through", func() {
			So(auth.ParseRole("admin"), ShouldEqual, auth.RoleAdmin)
			So(auth.ParseRole("editor"), ShouldEqual, auth.RoleEditor)
		})

		Convey("And anything unrecognized degrades to viewer", func() {
			So(auth.ParseRole(""), ShouldEqual, auth.RoleViewer)
			So(auth.ParseRole("root"), ShouldEqual, auth.RoleViewer)
		})
	})
}

func TestContextThreading(t *testing.T) {
	Convey("Given a context without a role", t, func() {
		ctx := context.Background()

		Convey("Then the role defaults to viewer and writes are refused", func() {
			So(auth.RoleFromContext(ctx), ShouldEqual, auth.RoleViewer)
			So(auth.RequireWrite(ctx), ShouldEqual, auth.ErrPermissionDenied)
			So(auth.RequireAdmin(ctx), ShouldEqual, auth.ErrPermissionDenied)
		})
	})

	Convey("Given a context carrying editor", t, func() {
		ctx := auth.WithRole(context.Background(), auth.RoleEditor)

		Convey("Then writes pass and admin checks fail", func() {
			So(auth.RequireWrite(ctx), ShouldBeNil)
			So(auth.RequireAdmin(ctx), ShouldEqual, auth.ErrPermissionDenied)
		})
	})

	Convey("Given a context carrying admin", t, func() {
		ctx := auth.WithRole(context.Background(), auth.RoleAdmin)

		Convey("Then both checks pass", func() {
			So(auth.RequireWrite(ctx), ShouldBeNil)
			So(auth.RequireAdmin(ctx), ShouldBeNil)
		})
	})
}
