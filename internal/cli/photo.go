package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"omac/internal/cli/appctx"
	"omac/internal/domain"
	"omac/internal/imaging"
	"omac/internal/photos"
	"omac/internal/render"
)

var photoCmd = &cobra.Command{
	Use:   "photo",
	Short: "Manage figure photos",
}

var photoAddCmd = &cobra.Command{
	Use:   "add <figure> <file>",
	Short: "Attach a photo file to a figure",
	Args:  cobra.ExactArgs(2),
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runPhotoAdd),
}

var photoLsCmd = &cobra.Command{
	Use:   "ls <figure>",
	Short: "List a figure's photos",
	Args:  cobra.ExactArgs(1),
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runPhotoLs),
}

var photoPrimaryCmd = &cobra.Command{
	Use:   "primary <figure> <photo-uuid>",
	Short: "Mark a photo as the figure's primary",
	Args:  cobra.ExactArgs(2),
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runPhotoPrimary),
}

var photoRmCmd = &cobra.Command{
	Use:   "rm <photo-uuid>",
	Short: "Remove a photo",
	Args:  cobra.ExactArgs(1),
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runPhotoRm),
}

var (
	photoAddCaption string
	photoAddPrimary bool
)

func init() {
	rootCmd.AddCommand(photoCmd)
	photoCmd.AddCommand(photoAddCmd, photoLsCmd, photoPrimaryCmd, photoRmCmd)

	photoAddCmd.Flags().StringVar(&photoAddCaption, "caption", "", "Photo caption")
	photoAddCmd.Flags().BoolVar(&photoAddPrimary, "primary", false, "Mark as the figure's primary photo")
}

func runPhotoAdd(app *appctx.App, cmd *cobra.Command, args []string) error {
	f, err := resolveFigure(app, args[0])
	if err != nil {
		return err
	}
	src := args[1]
	if !photos.IsImageFile(src) {
		return fmt.Errorf("%s is not a recognized image file", src)
	}

	if err := app.Photos.EnsureDir(); err != nil {
		return err
	}
	finalName, err := app.Photos.Copy(src, filepath.Base(src))
	if err != nil {
		return err
	}

	p := &domain.Photo{
		FigureUUID: f.UUID,
		FilePath:   finalName,
		Caption:    domain.StrPtr(photoAddCaption),
		IsPrimary:  photoAddPrimary,
	}
	if err := app.Store.Photos.Add(p); err != nil {
		app.Photos.Delete(finalName)
		return err
	}

	if _, err := imaging.Thumbnail(app.Photos.Dir(), finalName); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: thumbnail: %v\n", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Added photo %s to %s as %s\n",
		shortUUID(p.UUID), f.Name, finalName)
	return nil
}

func runPhotoLs(app *appctx.App, cmd *cobra.Command, args []string) error {
	f, err := resolveFigure(app, args[0])
	if err != nil {
		return err
	}
	figPhotos, err := app.Store.Photos.ListForFigure(f.UUID)
	if err != nil {
		return err
	}

	headers := []string{"UUID", "File", "Primary", "Caption", "Uploaded"}
	var rows [][]string
	for _, p := range figPhotos {
		primary := ""
		if p.IsPrimary {
			primary = "yes"
		}
		rows = append(rows, []string{
			shortUUID(p.UUID), p.FilePath, primary, orDash(p.Caption),
			p.UploadDate.Format(domain.TimeFormat),
		})
	}
	r := render.NewRenderer(cmd.OutOrStdout(), render.Options{Format: render.FormatTable})
	return r.RenderTable(headers, rows)
}

func runPhotoPrimary(app *appctx.App, cmd *cobra.Command, args []string) error {
	f, err := resolveFigure(app, args[0])
	if err != nil {
		return err
	}
	if err := app.Store.Photos.SetPrimary(f.UUID, args[1]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Set primary photo for %s\n", f.Name)
	return nil
}

func runPhotoRm(app *appctx.App, cmd *cobra.Command, args []string) error {
	path, err := app.Store.Photos.Delete(args[0])
	if err != nil {
		return err
	}
	if err := app.Photos.Delete(path); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed photo %s\n", path)
	return nil
}
