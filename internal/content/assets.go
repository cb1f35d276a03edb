package content

import (
	"fmt"
	"net/url"
	"strings"
)

// PlaceholderImageURL is served when a listing carries no usable image
// reference.
const PlaceholderImageURL = "/static/placeholder-listing.jpg"

// ImageOptions are the CDN transform parameters.
type ImageOptions struct {
	Width  int
	Height int
}

// AssetResolver builds CDN URLs from CMS image references. References look
// like "image-<assetId>-<width>x<height>-<format>"; already-absolute URLs
// pass through untouched.
type AssetResolver struct {
	cdnBaseURL string
	dataset    string
}

func NewAssetResolver(cdnBaseURL, dataset string) *AssetResolver {
	return &AssetResolver{
		cdnBaseURL: strings.TrimSuffix(cdnBaseURL, "/"),
		dataset:    dataset,
	}
}

// ResolveAssetURL turns an image reference into a fetchable URL. A malformed
// reference resolves to the placeholder rather than an error.
func (r *AssetResolver) ResolveAssetURL(ref string, opts ImageOptions) string {
	if ref == "" {
		return PlaceholderImageURL
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return r.withTransform(ref, opts)
	}

	parts := strings.Split(ref, "-")
	if len(parts) != 4 || parts[0] != "image" {
		return PlaceholderImageURL
	}
	assetID, dims, format := parts[1], parts[2], parts[3]

	base := fmt.Sprintf("%s/images/%s/%s-%s.%s", r.cdnBaseURL, r.dataset, assetID, dims, format)
	return r.withTransform(base, opts)
}

func (r *AssetResolver) withTransform(rawURL string, opts ImageOptions) string {
	if opts.Width <= 0 && opts.Height <= 0 {
		return rawURL
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	if opts.Width > 0 {
		q.Set("w", fmt.Sprintf("%d", opts.Width))
	}
	if opts.Height > 0 {
		q.Set("h", fmt.Sprintf("%d", opts.Height))
	}
	q.Set("fit", "crop")
	u.RawQuery = q.Encode()
	return u.String()
}
