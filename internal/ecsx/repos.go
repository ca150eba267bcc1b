package ecsx

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
)

// Image is one pushed image in a repository.
type Image struct {
	Tags     []string
	Digest   string
	Size     int64
	PushedAt time.Time
}

// Repository is an image repository with its recent images.
type Repository struct {
	Name   string
	Images []Image
}

// Repositories lists all image repositories with their image summaries.
func (c *Client) Repositories(ctx context.Context) ([]Repository, error) {
	out, err := c.ECR.DescribeRepositories(ctx, &ecr.DescribeRepositoriesInput{
		MaxResults: aws.Int32(100),
	})
	if err != nil {
		return nil, err
	}

	repos := make([]Repository, 0, len(out.Repositories))
	for _, r := range out.Repositories {
		repo := Repository{Name: aws.ToString(r.RepositoryName)}

		images, err := c.ECR.DescribeImages(ctx, &ecr.DescribeImagesInput{
			RepositoryName: r.RepositoryName,
			MaxResults:     aws.Int32(100),
		})
		if err != nil {
			return nil, err
		}
		for _, i := range images.ImageDetails {
			repo.Images = append(repo.Images, Image{
				Tags:     i.ImageTags,
				Digest:   aws.ToString(i.ImageDigest),
				Size:     aws.ToInt64(i.ImageSizeInBytes),
				PushedAt: aws.ToTime(i.ImagePushedAt),
			})
		}
		repos = append(repos, repo)
	}
	return repos, nil
}

// CreateRepository creates a repository and returns its URI.
func (c *Client) CreateRepository(ctx context.Context, name string) (string, error) {
	out, err := c.ECR.CreateRepository(ctx, &ecr.CreateRepositoryInput{
		RepositoryName: aws.String(name),
	})
	if err != nil {
		return "", err
	}
	return aws.ToString(out.Repository.RepositoryUri), nil
}

// DeleteRepository deletes a repository. Without force the API rejects
// deletion of a repository that still contains images.
func (c *Client) DeleteRepository(ctx context.Context, name string, force bool) error {
	_, err := c.ECR.DeleteRepository(ctx, &ecr.DeleteRepositoryInput{
		RepositoryName: aws.String(name),
		Force:          force,
	})
	return err
}
